package model

// Profile is the acting user. It is fixed at startup.
type Profile struct {
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref"`
}

// DefaultProfile is used when no profile is configured.
var DefaultProfile = Profile{DisplayName: "User", AvatarRef: "DefaultPfp.jpg"}
