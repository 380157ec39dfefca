// Package parsetree stores concrete syntax trees in an index-addressed arena.
//
// A parse tree remembers every token of the source, whitespace and comments
// included. Nodes live in one slice owned by a Tree and refer to each other
// by index: a node knows its parent, its first child and its next sibling,
// so children form a forward-linked list in source order.
//
// Trees are produced by exactly one of two builders:
//
//	┌──────────────────┐  StartInternal / Leaf / FinishInternal
//	│  TopDownBuilder  │─────────────────────────────────────────┐
//	└──────────────────┘                                         ▼
//	                                                       ┌──────────┐
//	                                                       │   Tree   │
//	┌──────────────────┐  Shift / Reduce                   └──────────┘
//	│  BottomUpBuilder │─────────────────────────────────────────▲
//	└──────────────────┘
//
// The top-down builder mirrors a recursive descent parser: it keeps a stack
// of nodes that are still open. The bottom-up builder mirrors a shift-reduce
// parser: it keeps a stack of finished subtrees. Given equivalent
// derivations over the same tokens both produce the same tree.
//
// A finished Tree never changes and can be read from any number of
// goroutines. The tree does not own the source text nor the names of its
// symbols; Dump takes both from the caller.
//
// Misuse of the package (unbalanced builder calls, lookups outside the
// tree, ids from another tree) is a programming error and panics.
package parsetree
