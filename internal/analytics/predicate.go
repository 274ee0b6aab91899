package analytics

import "strings"

// Predicate is a rendered boolean expression with its bound parameters,
// ordered to match placeholder occurrence.
type Predicate struct {
	SQL  string
	Args []any
}

// IsEmpty reports whether the predicate is unconditionally true.
func (p Predicate) IsEmpty() bool {
	return p.SQL == ""
}

// condition is one exclusion rule before rendering. Conditions are data;
// composePredicates renders the same rules once per query shape.
type condition struct {
	sql  string
	args []any
}

// composePredicates renders the filters into the two predicate shapes the
// aggregator needs: one over Visitation rows (aliased v) and one over
// LinkClick rows joined to their owning Visitation (aliased lc). A click is
// excluded when its own link is excluded or when its owning visit would be
// excluded, so every visit rule is reapplied through a subquery on
// lc.visitation_id.
func composePredicates(f Filters) (visit, click Predicate) {
	var visitConds, clickConds []condition

	if len(f.ExcludedLinks) > 0 {
		clickConds = append(clickConds, condition{
			sql:  "lc.link_url NOT IN (" + placeholders(len(f.ExcludedLinks)) + ")",
			args: toArgs(f.ExcludedLinks),
		})
	}

	if len(f.ExcludedCountries) > 0 {
		in := placeholders(len(f.ExcludedCountries))
		args := toArgs(f.ExcludedCountries)
		visitConds = append(visitConds, condition{
			sql:  "v.country NOT IN (" + in + ")",
			args: args,
		})
		clickConds = append(clickConds, condition{
			sql:  "lc.visitation_id IN (SELECT id FROM visitations WHERE country NOT IN (" + in + "))",
			args: args,
		})
	}

	if len(f.ExcludedReferrers) > 0 {
		in := placeholders(len(f.ExcludedReferrers))
		args := toArgs(f.ExcludedReferrers)
		visitConds = append(visitConds, condition{
			sql:  "v.referrer NOT IN (" + in + ")",
			args: args,
		})
		clickConds = append(clickConds, condition{
			sql:  "lc.visitation_id IN (SELECT id FROM visitations WHERE referrer NOT IN (" + in + "))",
			args: args,
		})
	}

	if f.ExcludeBlankReferrer {
		visitConds = append(visitConds, condition{
			sql: "v.referrer IS NOT NULL AND v.referrer != ''",
		})
		clickConds = append(clickConds, condition{
			sql: "lc.visitation_id IN (SELECT id FROM visitations WHERE referrer IS NOT NULL AND referrer != '')",
		})
	}

	return renderPredicate(visitConds), renderPredicate(clickConds)
}

func renderPredicate(conds []condition) Predicate {
	if len(conds) == 0 {
		return Predicate{}
	}
	parts := make([]string, len(conds))
	var args []any
	for i, c := range conds {
		parts[i] = c.sql
		args = append(args, c.args...)
	}
	return Predicate{SQL: strings.Join(parts, " AND "), Args: args}
}

// whereClause renders the predicate as a standalone WHERE clause, or an
// empty string when the predicate is unconditionally true.
func whereClause(p Predicate) string {
	if p.IsEmpty() {
		return ""
	}
	return "WHERE " + p.SQL
}

// whereWith renders the predicate AND an extra condition as one WHERE clause.
func whereWith(p Predicate, extra string) string {
	if p.IsEmpty() {
		return "WHERE " + extra
	}
	return "WHERE " + p.SQL + " AND " + extra
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
