package main

import (
	"context"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
