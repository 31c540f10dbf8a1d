package model

import "slices"

// Avatar is the colour tag a player picks at creation
type Avatar string

const (
	AvatarWhite  Avatar = "white"
	AvatarBlack  Avatar = "black"
	AvatarRed    Avatar = "red"
	AvatarBlue   Avatar = "blue"
	AvatarGreen  Avatar = "green"
	AvatarYellow Avatar = "yellow"
)

// DefaultAvatar is used when the caller omits an avatar
const DefaultAvatar = AvatarGreen

// ValidAvatars returns all avatar colours
func ValidAvatars() []Avatar {
	return []Avatar{AvatarWhite, AvatarBlack, AvatarRed, AvatarBlue, AvatarGreen, AvatarYellow}
}

// ParseAvatar resolves a caller-supplied avatar.
// An empty value falls back to DefaultAvatar; an unknown value is rejected.
func ParseAvatar(s string) (Avatar, error) {
	if s == "" {
		return DefaultAvatar, nil
	}
	a := Avatar(s)
	if !slices.Contains(ValidAvatars(), a) {
		return "", ErrInvalidAvatar
	}
	return a, nil
}
