// Package filter selects Millennium records with expr-lang expressions.
//
// Record fields are exposed as variables (numbers as int64 or float64,
// date-times as time.Time). Fields whose names are not valid identifiers are
// reachable through the record map: record["Nome Fantasia"] == "X".
//
//	compiler := filter.NewExprCompiler(filter.WithCache(64))
//	f, err := compiler.Compile(`ativo and daysSince(cadastro) < 30`)
//	matches, err := filter.NewEvaluator().Evaluate(ctx, f, records)
package filter
