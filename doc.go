// Package tabula contains the core components of Tabula, a library for selecting,
// transforming and joining hierarchical columnar data in memory. This root package
// defines the capability types which are employed during regular use of the library,
// as well as in its extension, and is an excellent overview of Tabula's key concepts.
package tabula
