package constants

// MaxAvatarBytes caps avatar uploads before decoding.
const MaxAvatarBytes = 5 << 20
