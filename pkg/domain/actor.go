package domain

// ActorIcon selects how an actor is drawn on the canvas.
type ActorIcon string

const (
	ActorIconPerson ActorIcon = "person"
	ActorIconSystem ActorIcon = "system"
)

// Valid reports whether i is a known icon.
func (i ActorIcon) Valid() bool {
	return i == ActorIconPerson || i == ActorIconSystem
}

// NormalizeActorIcon maps anything but "system" to ActorIconPerson.
func NormalizeActorIcon(s string) ActorIcon {
	if ActorIcon(s) == ActorIconSystem {
		return ActorIconSystem
	}
	return ActorIconPerson
}

// Actor is an external entity (person or system) that interacts with use cases.
type Actor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        ActorIcon `json:"icon"`
}
