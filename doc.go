// Package gopace implement allocation pacing for concurrent garbage
// collectors. A concurrent collector runs while application threads,
// called mutators, keep allocating; if allocation outruns collection
// the heap runs dry mid-cycle and the collector falls back to an
// expensive stop-the-world cycle. The pacer prices each allocation
// against the collector's remaining work and delays mutators, within
// a hard ceiling, when the shared budget runs out.
//
// api:
//
// Interface specification between the pacer and the collector
// components it reads: heap accounting, free view and collection-set.
//
// heap:
//
// Byte accounting models for heap, free view and collection-set.
// Collectors can embed them or use them to simulate cycles.
//
// lib:
//
// Convinience functions that can be used by other packages. Package
// shall not import packages other than golang's standard packages.
//
// pacer:
//
// The pacer proper: lock-free shared budget, per-phase tax setup,
// blocking pace operation and delay reporting.
package gopace
