package api

// Wordsize number of bytes in a heap word. Pacing budgets are
// accounted in words, not bytes.
const Wordsize = int64(8)

// LogWordsize log2 of Wordsize, to convert byte figures to words.
const LogWordsize = uint(3)
