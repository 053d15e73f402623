/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// RangeOperator is a sort key comparison supported by DynamoDB key conditions.
type RangeOperator int

const (
	RangeEqual RangeOperator = iota + 1
	RangeLessThan
	RangeLessThanEqual
	RangeGreaterThan
	RangeGreaterThanEqual
	RangeBetween
	RangeBeginsWith
)

func (o RangeOperator) String() string {
	switch o {
	case RangeEqual:
		return "="
	case RangeLessThan:
		return "<"
	case RangeLessThanEqual:
		return "<="
	case RangeGreaterThan:
		return ">"
	case RangeGreaterThanEqual:
		return ">="
	case RangeBetween:
		return "BETWEEN"
	case RangeBeginsWith:
		return "begins_with"
	default:
		return fmt.Sprintf("RangeOperator(%d)", int(o))
	}
}

// KeyCondition is an equality on the partition key.
type KeyCondition struct {
	Attribute string
	Value     any
}

// RangeCondition restricts the sort key.
type RangeCondition struct {
	Attribute string
	Operator  RangeOperator
	// Values holds one operand, or two for RangeBetween.
	Values []any
}

// KeyConditionBuilder renders the condition for the expression package.
func (c RangeCondition) KeyConditionBuilder() (expression.KeyConditionBuilder, error) {
	want := 1
	if c.Operator == RangeBetween {
		want = 2
	}
	if len(c.Values) != want {
		return expression.KeyConditionBuilder{}, fmt.Errorf("range operator %s takes %d value(s), got %d", c.Operator, want, len(c.Values))
	}

	key := expression.Key(c.Attribute)
	v := expression.Value(c.Values[0])
	switch c.Operator {
	case RangeEqual:
		return key.Equal(v), nil
	case RangeLessThan:
		return key.LessThan(v), nil
	case RangeLessThanEqual:
		return key.LessThanEqual(v), nil
	case RangeGreaterThan:
		return key.GreaterThan(v), nil
	case RangeGreaterThanEqual:
		return key.GreaterThanEqual(v), nil
	case RangeBetween:
		return key.Between(v, expression.Value(c.Values[1])), nil
	case RangeBeginsWith:
		s, ok := c.Values[0].(string)
		if !ok {
			return expression.KeyConditionBuilder{}, fmt.Errorf("begins_with needs a string prefix, got %T", c.Values[0])
		}
		return key.BeginsWith(s), nil
	default:
		return expression.KeyConditionBuilder{}, fmt.Errorf("unsupported range operator %s", c.Operator)
	}
}

// QueryExpression is a structured query against a table or secondary index:
// partition key equality, an optional sort key condition and an optional
// filter applied after the key lookup.
type QueryExpression struct {
	IndexName        string
	HashKey          KeyCondition
	RangeKey         *RangeCondition
	Filter           *expression.ConditionBuilder
	Projection       []string
	Limit            int32
	PageSize         int32
	ConsistentRead   bool
	ScanIndexForward *bool
}

// NewQuery starts a query on the partition key attribute.
func NewQuery(hashAttribute string, hashValue any) *QueryExpression {
	return &QueryExpression{HashKey: KeyCondition{Attribute: hashAttribute, Value: hashValue}}
}

// OnIndex targets a global secondary index.
func (q *QueryExpression) OnIndex(name string) *QueryExpression {
	q.IndexName = name
	return q
}

// WithRange adds a sort key condition.
func (q *QueryExpression) WithRange(attribute string, op RangeOperator, values ...any) *QueryExpression {
	q.RangeKey = &RangeCondition{Attribute: attribute, Operator: op, Values: values}
	return q
}

// WithFilter adds a post-key filter.
func (q *QueryExpression) WithFilter(cond expression.ConditionBuilder) *QueryExpression {
	q.Filter = &cond
	return q
}

// WithProjection restricts the returned attributes.
func (q *QueryExpression) WithProjection(attributes ...string) *QueryExpression {
	q.Projection = attributes
	return q
}

// WithLimit caps the total number of items returned.
func (q *QueryExpression) WithLimit(limit int32) *QueryExpression {
	q.Limit = limit
	return q
}

// Descending reverses sort key order.
func (q *QueryExpression) Descending() *QueryExpression {
	f := false
	q.ScanIndexForward = &f
	return q
}

// Build renders the key condition, filter and projection.
func (q *QueryExpression) Build() (expression.Expression, error) {
	if q.HashKey.Attribute == "" {
		return expression.Expression{}, errors.New("query expression needs a hash key attribute")
	}
	keyCond := expression.Key(q.HashKey.Attribute).Equal(expression.Value(q.HashKey.Value))
	if q.RangeKey != nil {
		rc, err := q.RangeKey.KeyConditionBuilder()
		if err != nil {
			return expression.Expression{}, err
		}
		keyCond = keyCond.And(rc)
	}

	b := expression.NewBuilder().WithKeyCondition(keyCond)
	if q.Filter != nil {
		b = b.WithFilter(*q.Filter)
	}
	if proj, ok := projection(q.Projection); ok {
		b = b.WithProjection(proj)
	}
	return b.Build()
}

// ScanExpression is an unconditioned or filter-only scan.
type ScanExpression struct {
	IndexName      string
	Filter         *expression.ConditionBuilder
	Projection     []string
	Limit          int32
	PageSize       int32
	ConsistentRead bool
}

// NewScan starts an unconditioned scan.
func NewScan() *ScanExpression {
	return &ScanExpression{}
}

// WithFilter adds a filter.
func (s *ScanExpression) WithFilter(cond expression.ConditionBuilder) *ScanExpression {
	s.Filter = &cond
	return s
}

// WithProjection restricts the returned attributes.
func (s *ScanExpression) WithProjection(attributes ...string) *ScanExpression {
	s.Projection = attributes
	return s
}

// WithLimit caps the total number of items returned.
func (s *ScanExpression) WithLimit(limit int32) *ScanExpression {
	s.Limit = limit
	return s
}

// Build renders the filter and projection. ok is false when there is
// nothing to render.
func (s *ScanExpression) Build() (expr expression.Expression, ok bool, err error) {
	b := expression.NewBuilder()
	if s.Filter != nil {
		b = b.WithFilter(*s.Filter)
		ok = true
	}
	if proj, has := projection(s.Projection); has {
		b = b.WithProjection(proj)
		ok = true
	}
	if !ok {
		return expression.Expression{}, false, nil
	}
	expr, err = b.Build()
	return expr, true, err
}

func projection(attrs []string) (expression.ProjectionBuilder, bool) {
	if len(attrs) == 0 {
		return expression.ProjectionBuilder{}, false
	}
	names := make([]expression.NameBuilder, 0, len(attrs)-1)
	for _, a := range attrs[1:] {
		names = append(names, expression.Name(a))
	}
	return expression.NamesList(expression.Name(attrs[0]), names...), true
}

// CountRequest carries exactly one of its four request forms.
type CountRequest struct {
	Query      *QueryExpression
	Scan       *ScanExpression
	QueryInput *dynamodb.QueryInput
	ScanInput  *dynamodb.ScanInput
}

// Validate checks that exactly one request form is set.
func (r CountRequest) Validate() error {
	n := 0
	for _, set := range []bool{r.Query != nil, r.Scan != nil, r.QueryInput != nil, r.ScanInput != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("count request must carry exactly one request, got %d", n)
	}
	return nil
}

// FailedBatch is one batch of a batch write that did not complete.
type FailedBatch struct {
	Err              error
	UnprocessedItems map[string][]types.WriteRequest
}
