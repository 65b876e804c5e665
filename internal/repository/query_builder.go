package repository

import "github.com/doug-martin/goqu/v9"

// QueryBuilder collects equality filters keyed by logical column name and
// renders them against a query's table aliases.
type QueryBuilder interface {
	AddCondition(key string, value interface{})
	// AddOptional adds the condition only when value is a non-nil *int, *bool or
	// *string, dereferenced.
	AddOptional(key string, value interface{})
	BuildConditions(aliases map[string]string) goqu.Ex
}
