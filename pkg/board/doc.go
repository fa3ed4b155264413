// Package board defines the whiteboard document model: the four element
// kinds, their shared spatial attributes, z-order bookkeeping, and the JSON
// record format used for export and import.
package board
