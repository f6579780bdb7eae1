/*
Query Weaver: safe SQL composition. Builds parameterized SQL strings from
interpolated values without manual escaping, and renders the same query in
several placeholder dialects or as a directly executable debug string.

Key Features

• You write plain SQL. There's no DSL in Go.

• Interpolation points are ordinal parameters such as $1, $2, and so on.
Arguments may be plain values or previously woven fragments, which are spliced
in and renumerated automatically.

• Context-aware: a small SQL scanner tracks comments, string literals, and
dollar-quoted blocks across fragment boundaries, so a value interpolated inside
one of those regions is never substituted.

• Multi-mode rendering: `$N` text plus bound values, `?` positional text, `:N`
numbered text, or a fully inlined "embed" string for debugging and logging.

• Clause and statement builders for WHERE / INSERT / UPDATE / DELETE over plain
maps or structs with "db" tags.

• A thin query helper that renders fragments and delegates to any database
client implementing a two-method interface; an adapter for pgx is included.

Examples

See `SQL`, `Where`, `BuildInsert`, and the `Helper` methods.
*/
package queryweaver
