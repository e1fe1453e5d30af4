package proposal

// Conversation roles. The transcript alternates user/model in well-formed
// usage; alternation is a property of how callers drive the protocol, not
// an enforced invariant.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is a single entry in a challenge conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// ModelTurn builds a model turn.
func ModelTurn(content string) Turn {
	return Turn{Role: RoleModel, Content: content}
}
