// Package aggregates defines the write contracts of the workbook hierarchy.
//
// Each aggregate owns its transaction: ordinal renumbering, cascades and the
// numberOfWeeks counter are applied as one batch or not at all.
package aggregates
