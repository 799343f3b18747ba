package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	StaffIDKey   contextKey = "staff_id"
	StaffNameKey contextKey = "staff_name"
	TokenKey     contextKey = "token"
)

func GetStaffIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	staffIDVal := ctx.Value(StaffIDKey)
	if staffIDVal == nil {
		return uuid.Nil, false
	}

	staffIDStr, ok := staffIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	staffID, err := uuid.Parse(staffIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return staffID, true
}

// GetStaffNameFromContext mendapatkan display name dari context
func GetStaffNameFromContext(ctx context.Context) (string, bool) {
	nameVal := ctx.Value(StaffNameKey)
	if nameVal == nil {
		return "", false
	}

	name, ok := nameVal.(string)
	return name, ok
}

func SetStaffContext(ctx context.Context, staffID uuid.UUID, displayName string) context.Context {
	ctx = context.WithValue(ctx, StaffIDKey, staffID.String())
	ctx = context.WithValue(ctx, StaffNameKey, displayName)
	return ctx
}

// GetTokenFromContext mendapatkan token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

// SetTokenContext menambahkan token ke context
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
