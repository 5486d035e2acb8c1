package runtimeobj

// WellKnownTags identifies the tags of the language's primitive and
// String classes, resolved once from the Klass registry at startup.
// Markers (internal/gc) consult it for the "special-type
// optimisation" of spec.md §4.8: Int/Bool fields are never scanned,
// and a String's fields are skipped except for a fast-path visit to
// its length object.
type WellKnownTags struct {
	Int    int32
	Bool   int32
	String int32
}

// IsPrimitive reports whether tag names Int or Bool: objects whose
// fields hold no heap pointers at all.
func (w WellKnownTags) IsPrimitive(tag int32) bool {
	return tag == w.Int || tag == w.Bool
}

// IsString reports whether tag names String.
func (w WellKnownTags) IsString(tag int32) bool {
	return tag == w.String
}
