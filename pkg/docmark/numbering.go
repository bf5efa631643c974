package docmark

// List formats the renderer distinguishes. Other format names pass through
// and render as ordered lists.
const (
	NumFormatBullet      = "bullet"
	NumFormatDecimal     = "decimal"
	NumFormatLowerLetter = "lowerLetter"
	NumFormatLowerRoman  = "lowerRoman"
)

// NumberingPart wraps the numbering-definitions part: the numbering-id to
// abstract-numbering-id mapping, per-level formats, and level overrides.
// Read-only during rendering.
type NumberingPart struct {
	part           *Part
	numToAbstract  map[int]int
	levelFormats   map[int]map[int]string // abstract num id -> raw level -> format
	levelOverrides map[int]map[int]string // num id -> raw level -> format
}

func newNumberingPart(part *Part) (*NumberingPart, error) {
	np := &NumberingPart{
		part:           part,
		numToAbstract:  make(map[int]int),
		levelFormats:   make(map[int]map[int]string),
		levelOverrides: make(map[int]map[int]string),
	}

	root := part.RootNode()
	if root == nil {
		return np, nil
	}

	for _, el := range root.Element().ChildrenByTag("w:abstractNum") {
		node, err := WrapNode(el)
		if err != nil {
			return nil, NewMalformedPartError(part.Name, el.Tag, err)
		}
		abstractID, err := node.IntAttr("w:abstractNumId")
		if err != nil {
			return nil, NewMalformedPartError(part.Name, el.Tag, err)
		}
		levels := make(map[int]string)
		for _, lvl := range el.ChildrenByTag("w:lvl") {
			ilvl, format, err := parseLevel(part.Name, lvl)
			if err != nil {
				return nil, err
			}
			if format != "" {
				levels[ilvl] = format
			}
		}
		np.levelFormats[abstractID] = levels
	}

	for _, el := range root.Element().ChildrenByTag("w:num") {
		node, err := WrapNode(el)
		if err != nil {
			return nil, NewMalformedPartError(part.Name, el.Tag, err)
		}
		numID, err := node.IntAttr("w:numId")
		if err != nil {
			return nil, NewMalformedPartError(part.Name, el.Tag, err)
		}
		abstractRef := el.Child("w:abstractNumId")
		if abstractRef == nil {
			return nil, NewMalformedPartError(part.Name, el.Tag,
				NewSchemaViolationError(el.Tag, "missing abstractNumId child"))
		}
		refNode, err := WrapNode(abstractRef)
		if err != nil {
			return nil, NewMalformedPartError(part.Name, abstractRef.Tag, err)
		}
		abstractID, err := refNode.IntAttr("w:val")
		if err != nil {
			return nil, NewMalformedPartError(part.Name, abstractRef.Tag, err)
		}
		np.numToAbstract[numID] = abstractID

		for _, override := range el.ChildrenByTag("w:lvlOverride") {
			overrideNode, err := WrapNode(override)
			if err != nil {
				return nil, NewMalformedPartError(part.Name, override.Tag, err)
			}
			ilvl, err := overrideNode.IntAttr("w:ilvl")
			if err != nil {
				return nil, NewMalformedPartError(part.Name, override.Tag, err)
			}
			lvl := override.Child("w:lvl")
			if lvl == nil {
				continue
			}
			_, format, err := parseLevel(part.Name, lvl)
			if err != nil {
				return nil, err
			}
			if format != "" {
				if np.levelOverrides[numID] == nil {
					np.levelOverrides[numID] = make(map[int]string)
				}
				np.levelOverrides[numID][ilvl] = format
			}
		}
	}

	return np, nil
}

func parseLevel(partName string, lvl *Element) (int, string, error) {
	node, err := WrapNode(lvl)
	if err != nil {
		return 0, "", NewMalformedPartError(partName, lvl.Tag, err)
	}
	ilvl, err := node.IntAttr("w:ilvl")
	if err != nil {
		return 0, "", NewMalformedPartError(partName, lvl.Tag, err)
	}
	format := ""
	if numFmt := lvl.Child("w:numFmt"); numFmt != nil {
		format, _ = numFmt.Attr("w:val")
	}
	return ilvl, format, nil
}

// AbstractNumID maps a numbering id to its abstract numbering id.
func (np *NumberingPart) AbstractNumID(numID int) (int, bool) {
	id, ok := np.numToAbstract[numID]
	return id, ok
}

// LevelFormat returns the declared format for one level of an abstract
// numbering definition.
func (np *NumberingPart) LevelFormat(abstractNumID, level int) (string, bool) {
	levels, ok := np.levelFormats[abstractNumID]
	if !ok {
		return "", false
	}
	format, ok := levels[level]
	return format, ok
}

// FormatFor resolves the format for a numbering id and raw level, with a
// level override taking precedence over the abstract definition.
func (np *NumberingPart) FormatFor(numID, level int) (string, bool) {
	if overrides, ok := np.levelOverrides[numID]; ok {
		if format, ok := overrides[level]; ok {
			return format, true
		}
	}
	abstractID, ok := np.numToAbstract[numID]
	if !ok {
		return "", false
	}
	return np.LevelFormat(abstractID, level)
}

// numberingState tracks list-depth normalization across consecutive
// numbered paragraphs. Authors use non-contiguous or inconsistent raw
// levels (skipping from 0 to 2, or reusing indentation overrides), so the
// emitted depth reflects actual nesting transitions, not raw values: the
// running allocation counter advances only the first time a raw level
// strictly greater than the last-seen one appears, and a smaller or equal
// raw level reverts to the depth previously recorded for it.
type numberingState struct {
	depthOf map[int]int // raw level -> normalized depth
	lastRaw int
	alloc   int // highest depth allocated so far
}

func newNumberingState() numberingState {
	return numberingState{
		depthOf: make(map[int]int),
		lastRaw: -1,
		alloc:   -1,
	}
}

func (s *numberingState) reset() {
	*s = newNumberingState()
}

// normalize maps a raw authoring level to its normalized depth and records
// the transition.
func (s *numberingState) normalize(raw int) int {
	depth, recorded := s.depthOf[raw]
	switch {
	case recorded:
		// revert to the previously recorded depth
	case raw > s.lastRaw:
		// first-time transition to a deeper level
		s.alloc++
		depth = s.alloc
		s.depthOf[raw] = depth
	default:
		// a never-seen shallower level; adopt the depth of the nearest
		// recorded level below it
		depth = 0
		for recordedRaw, recordedDepth := range s.depthOf {
			if recordedRaw < raw && recordedDepth > depth {
				depth = recordedDepth
			}
		}
		s.depthOf[raw] = depth
	}
	s.lastRaw = raw
	return depth
}
