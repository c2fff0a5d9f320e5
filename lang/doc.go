// Package lang implements the template language used to render
// parameterized source trees.
//
// Template text is ordinary file content with two kinds of markup:
//
//	{{#if EXPR}} ... {{else}} ... {{/if}}   conditional block
//	${{ EXPR }}                             interpolation
//
// The else branch is optional and conditionals nest to any depth. A "{{" that
// does not begin one of the block directives is ordinary text, so templates
// may freely contain JSX style objects, Go templates, or CI expressions.
// Text outside the markup is reproduced byte for byte.
//
// # Grammar
//
// Informal EBNF:
//
//	Template    → (Literal | Interp | Cond)*
//	Interp      → '${{' Expr '}}'
//	Cond        → '{{#if' Expr '}}' Template ('{{else}}' Template)? '{{/if}}'
//	Expr        → Path | Path '==' String | '(' 'eq' Path String ')'
//	Path        → Name ('.' Name)*
//	Name        → letter or '_', then letters, digits, '_', or interior '-'
//	String      → double-, single-, or back-quoted string literal
//
// Whitespace is permitted between "{{" and the keyword and before "}}".
//
// # Evaluation
//
// Paths resolve against a [Scope], the read-only values tree. A leading
// "values" segment names the root and may be omitted. A missing field at any
// depth resolves to absent and is never an error: absent is falsy in a guard,
// prints as the empty string, and equals no literal.
//
// A bare path in a guard tests truthiness ([Truthy]); an equality compares
// the value's canonical string form ([Stringify]) with the literal exactly.
//
// Rendering visits only the selected branch of each conditional, so a
// template may interpolate fields that exist only when its guard holds.
// Parsing, by contrast, checks every branch.
//
// # Errors
//
// Parse failures derive from [ErrMalformedDirective], [ErrUnbalancedDirective]
// or [ErrInvalidExpression] and report the template name and [Position].
//
// # Caching
//
// [Template] parses lazily and exactly once. [Cache] shares parsed templates
// across runs keyed by name and content hash.
package lang
