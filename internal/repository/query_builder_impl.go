package repository

import (
	"github.com/doug-martin/goqu/v9"
)

type conditionSet struct {
	conditions map[string]interface{}
}

func NewQueryBuilder() QueryBuilder {
	return &conditionSet{
		conditions: make(map[string]interface{}),
	}
}

func (q *conditionSet) AddCondition(key string, value interface{}) {
	q.conditions[key] = value
}

func (q *conditionSet) AddOptional(key string, value interface{}) {
	switch v := value.(type) {
	case *int:
		if v != nil {
			q.conditions[key] = *v
		}
	case *bool:
		if v != nil {
			q.conditions[key] = *v
		}
	case *string:
		if v != nil {
			q.conditions[key] = *v
		}
	case nil:
	default:
		q.conditions[key] = v
	}
}

// BuildConditions qualifies each key with its alias; keys without one are used
// as is.
func (q *conditionSet) BuildConditions(aliases map[string]string) goqu.Ex {
	conditions := goqu.Ex{}
	for key, value := range q.conditions {
		column := key
		if alias, ok := aliases[key]; ok {
			column = alias
		}
		conditions[column] = value
	}
	return conditions
}
