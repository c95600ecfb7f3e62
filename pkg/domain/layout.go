package domain

// NodePosition is canvas layout metadata for one entity.
// W and H are optional; nil means "let the canvas decide".
type NodePosition struct {
	X float64  `json:"x"`
	Y float64  `json:"y"`
	W *float64 `json:"w,omitempty"`
	H *float64 `json:"h,omitempty"`
}

// Dim returns a pointer to v, for the optional NodePosition dimensions.
func Dim(v float64) *float64 {
	return &v
}

func (p NodePosition) clone() NodePosition {
	if p.W != nil {
		p.W = Dim(*p.W)
	}
	if p.H != nil {
		p.H = Dim(*p.H)
	}
	return p
}
