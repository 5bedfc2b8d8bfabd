package jsonmerge

// Merge applies an RFC 7386 JSON Merge Patch to a target document and
// returns the merged result.
//
// The function realizes the MergePatch pseudocode from the RFC:
//
//	define MergePatch(Target, Patch):
//	    if Patch is an Object:
//	        if Target is not an Object:
//	            Target = {} # Ignore the contents and set it to an empty Object
//	        for each Name/Value pair in Patch:
//	            if Value is null:
//	                if Name exists in Target:
//	                    remove the Name/Value pair from Target
//	            else:
//	                Target[Name] = MergePatch(Target[Name], Value)
//	        return Target
//	    else:
//	        return Patch
//
// https://tools.ietf.org/html/rfc7386#section-2
//
// In plain terms: a non-object patch (scalar, array or null) replaces
// the target wholesale; an object patch is walked member by member,
// where null removes the member and anything else merges recursively
// into it. The recursion always descends into a sub-member of the
// patch, so it terminates for every well-formed document.
//
// Merge reuses the target's member maps where it can (the working
// target of the pseudocode), so the target tree must be considered
// consumed after the call — decode a fresh tree per merge. A nil
// member in a hand-built patch behaves like an explicit null.
func Merge(target, patch *Node) *Node {
	if patch == nil || patch.Type != ObjectType {
		return patch
	}

	var fields map[string]*Node
	if target != nil && target.Type == ObjectType && target.Fields != nil {
		fields = target.Fields
	} else {
		fields = map[string]*Node{}
	}

	for name, value := range patch.Fields {
		if value == nil || value.Type == NullType {
			delete(fields, name)
			continue
		}
		fields[name] = Merge(fields[name], value)
	}

	return &Node{Type: ObjectType, Fields: fields}
}
