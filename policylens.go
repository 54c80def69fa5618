// Package policylens locates, extracts, chunks and analyzes the privacy
// policy of a web page. It produces a natural-language summary and a
// per-category score on a 1 to 5 scale.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gemini/, sqlite/).
package policylens
