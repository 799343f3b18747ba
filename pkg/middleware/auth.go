package middleware

import (
	"net/http"
	"strings"

	"station-dispatch/internal/data/repository"
	"station-dispatch/pkg/utils"

	"go.uber.org/zap"
)

// StaffSession middleware untuk validasi session token UUID. Every protected
// operation runs with the staff id and display name resolved into context, so
// usecases can stamp bookings and tickets with who created them.
func StaffSession(sessionRepo repository.StaffSessionRepository, staffRepo repository.StaffRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token := parts[1]

			// Find valid session
			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session",
					zap.String("token", token),
					zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("token", token))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			// Resolve display name untuk context
			displayName := ""
			staff, err := staffRepo.FindByID(r.Context(), session.StaffID)
			if err != nil {
				logger.Error("Failed to resolve staff for session",
					zap.Error(err), zap.String("staff_id", session.StaffID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if staff != nil {
				displayName = staff.DisplayName
			}

			// Set context dengan staff info DAN token
			ctx := utils.SetStaffContext(r.Context(), session.StaffID, displayName)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
