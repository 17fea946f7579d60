package postgresengine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/tradewind-labs/orderstore-go/orderstore"
)

// compileFilterExpr turns a clause list plus join operator into one goqu
// expression, or nil when nothing constrains the result set. Clauses are
// assumed validated; an unknown field here is a programming error and fails
// query building rather than being silently skipped.
func compileFilterExpr(clauses []orderstore.FilterClause, join orderstore.JoinOperator) (exp.Expression, error) {
	compiled := make([]exp.Expression, 0, len(clauses))

	for _, clause := range clauses {
		if !clause.IsConstraining() {
			continue
		}

		expression, err := compileClause(clause)
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, expression)
	}

	if len(compiled) == 0 {
		return nil, nil //nolint:nilnil // nil expression means "match all"
	}

	if join == orderstore.JoinOr {
		return goqu.Or(compiled...), nil
	}

	return goqu.And(compiled...), nil
}

func compileClause(clause orderstore.FilterClause) (exp.Expression, error) {
	field, ok := orderstore.FieldByID(clause.Field)
	if !ok {
		return nil, errors.Join(
			orderstore.ErrBuildingQueryFailed,
			fmt.Errorf("unknown filter field %q", clause.Field),
		)
	}

	column := goqu.C(field.Column)

	switch clause.Variant {
	case orderstore.VariantText:
		return column.ILike("%" + escapeLikePattern(clause.Text) + "%"), nil

	case orderstore.VariantMultiSelect:
		return column.In(clause.Values), nil

	case orderstore.VariantNumberRange:
		return compileNumberRange(column, clause.Min, clause.Max), nil

	case orderstore.VariantDateRange:
		return compileDateRange(column, clause.From, clause.Until), nil

	default:
		return nil, errors.Join(
			orderstore.ErrBuildingQueryFailed,
			fmt.Errorf("unknown filter variant %q", clause.Variant),
		)
	}
}

// compileNumberRange builds an inclusive range predicate; nil bounds are open.
// Callers guarantee at least one bound is present.
func compileNumberRange(column exp.IdentifierExpression, minValue *float64, maxValue *float64) exp.Expression {
	bounds := make([]exp.Expression, 0, 2)

	if minValue != nil {
		bounds = append(bounds, column.Gte(*minValue))
	}

	if maxValue != nil {
		bounds = append(bounds, column.Lte(*maxValue))
	}

	if len(bounds) == 1 {
		return bounds[0]
	}

	return goqu.And(bounds...)
}

// compileDateRange builds an inclusive range predicate at calendar-day
// granularity: the until bound covers the whole final day by comparing
// strictly below the following midnight. This keeps date columns and
// timestamp columns behaving identically.
func compileDateRange(column exp.IdentifierExpression, from *time.Time, until *time.Time) exp.Expression {
	bounds := make([]exp.Expression, 0, 2)

	if from != nil {
		bounds = append(bounds, column.Gte(startOfDay(*from)))
	}

	if until != nil {
		bounds = append(bounds, column.Lt(startOfDay(*until).AddDate(0, 0, 1)))
	}

	if len(bounds) == 1 {
		return bounds[0]
	}

	return goqu.And(bounds...)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// escapeLikePattern neutralizes LIKE metacharacters in user-supplied search
// text so it matches literally inside the surrounding wildcards.
func escapeLikePattern(text string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(text)
}
