// Package models defines the persisted domain models for SplitzyTip.
//
// The tip calculator itself keeps no state (see package calculator); what
// is stored is identity and profile data:
//   - User: an account with its profile fields (name, email, avatar URL)
//   - ActionToken: single-use email verification and password reset tokens
//
// Relationships use ID strings rather than pointers.
package models
