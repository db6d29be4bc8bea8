package aemo

// DefaultBaseURL is the AEMO visualisations dashboard host.
const DefaultBaseURL = "https://visualisations.aemo.com.au"

const (
	endpointFiveMin           = "/aemo/apps/api/report/5MIN"
	endpointNemSummary        = "/aemo/apps/api/report/ELEC_NEM_SUMMARY"
	endpointMarketPriceLimits = "/aemo/apps/api/report/NEM_DASHBOARD_MARKET_PRICE_LIMITS"
	endpointCumulativePrice   = "/aemo/apps/api/report/NEM_DASHBOARD_CUMUL_PRICE"
)

// authErrorCodes are the error payload codes the dashboard returns for a
// rejected or expired session.
var authErrorCodes = []string{
	"unauthorized_client",
	"Login session expired.",
}
