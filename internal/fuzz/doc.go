// Package fuzztests holds Go fuzz harnesses for the source -> lexer ->
// parser -> extraction path. They look for panics, hangs and broken tree
// invariants on arbitrary input.
//
// Назначение: прогонять байты через FileSet, лексер, парсер и извлечение
// моделей. Корпус берётся из testdata/swift и встроенных фрагментов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
