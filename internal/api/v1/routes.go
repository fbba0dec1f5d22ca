package v1

import "github.com/danielgtaylor/huma/v2"

// RegisterRoutes registers every authenticated back-office operation. The API
// is expected to be mounted on /api behind the Auth middleware.
func RegisterRoutes(api huma.API, b Backoffice) {
	registerLogoutRoute(api, b)
	registerDashboardRoutes(api, b)
	registerCampaignRoutes(api, b)
	registerDisputeRoutes(api, b)
	registerSanctionRoutes(api, b)
	registerUserRoutes(api, b)
	registerValidationRoutes(api, b)
	registerWithdrawalRoutes(api, b)
	registerAdminLogRoutes(api, b)
	registerSettingRoutes(api, b)
}
