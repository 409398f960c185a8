// Package token defines lexical token kinds and trivia for the declaration parser.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly (Start..End, bytes).
//   - Attributes are lexed as '@' (Kind: At) + Ident; no per-attribute token kinds.
//   - Conditional-compilation lines (#if ... / #endif) are leading Trivia
//     (TriviaDirective) and never appear in the main token stream.
//   - Contextual keywords and modifiers are identifiers; only words that can never
//     be a type or member name are reserved.
package token
