// Package script runs list and generator scripts written in expr-lang.
//
// A script is a single expression. Its input, if any, is bound to "value",
// and the expression's result becomes the fragment's value:
//
//	q3.join_or(q3.quote(q3.trim(value)))
//
// Besides the inputs, every script sees these built-ins:
//
//	q3.quote(list)            wrap each element in double quotes
//	q3.trim(list)             trim surrounding whitespace
//	q3.normalize_spaces(list) collapse runs of whitespace
//	q3.uniq(list)             drop consecutive duplicates
//	q3.join(list, sep)        join with sep
//	q3.join_or(list)          join with " OR "
//	q3.join_and(list)         join with " AND "
//	env(key)                  process environment lookup
//	file.exists(p), file.isDir(p)
//	path.abs(p), path.cat(p...), path.base(p)
//	mung.prefix(key, items...), mung.prefixif(key, pred, items...)
package script
