package fixcodec

import "github.com/ndrandal/fixengine/internal/fixfield"

// groupDelimiters maps a repeating-group count tag to the tag that opens
// each repetition block. This is the static table referenced by the
// decoder's group-handling step; it covers the groups the shipped
// message types use. Venue adapters that introduce new groups extend
// this table at init time via RegisterGroup.
var groupDelimiters = map[int]int{
	fixfield.TagNoRelatedSym:   fixfield.TagSymbol,
	fixfield.TagNoMDEntryTypes: fixfield.TagMDEntryType,
}

// RegisterGroup adds a (count tag -> delimiter tag) mapping. It is not
// safe for concurrent use with decoding and is meant to be called during
// startup before any session connects, mirroring the field registry's
// own register-then-seal discipline.
func RegisterGroup(countTag, delimiterTag int) {
	groupDelimiters[countTag] = delimiterTag
}
