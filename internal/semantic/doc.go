// Package semantic turns a parsed type declaration into a flat model of its
// initializers, properties and methods, with every parameter and return
// type paired with its alias/generic-resolved form.
//
// Syntax trees come from package parser; resolution is pluggable through
// Resolver. AliasTable and GenericBindings are the two resolvers mimic ships.
package semantic
