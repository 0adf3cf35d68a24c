package i18n

// Catalog keys that are not failure reasons. Failure reasons
// (goerror.Reason values) are keys as well.
const (
	MsgIdentityMatched   = "msg.identity_matched"
	MsgOTCSent           = "msg.otc_sent"
	MsgOTCStatus         = "msg.otc_status"
	MsgOTCVerified       = "msg.otc_verified"
	MsgSession           = "msg.session"
	MsgLoggedOut         = "msg.logged_out"
	MsgCatalog           = "msg.catalog"
	MsgCart              = "msg.cart"
	MsgCartUpdated       = "msg.cart_updated"
	MsgCheckoutStarted   = "msg.checkout_started"
	MsgCheckoutStatus    = "msg.checkout_status"
	MsgCheckoutAbandoned = "msg.checkout_abandoned"
	MsgOrderConfirmed    = "msg.order_confirmed"
	MsgMaintenance       = "msg.maintenance"
	MsgRouteNotFound     = "msg.route_not_found"
	MsgMethodNotAllowed  = "msg.method_not_allowed"

	WarnStockBelowLimit = "stock_below_limit"

	InvoiceShop       = "invoice.shop"
	InvoiceTitle      = "invoice.title"
	InvoiceFamilyID   = "invoice.family_id"
	InvoiceToken      = "invoice.token"
	InvoiceDate       = "invoice.date"
	InvoiceItem       = "invoice.item"
	InvoiceQuantity   = "invoice.quantity"
	InvoicePrice      = "invoice.price"
	InvoiceLineTotal  = "invoice.line_total"
	InvoiceTotalPrice = "invoice.total_price"
	InvoiceThanks     = "invoice.thanks"
)

// ItemKey is the catalog key of a ration item's display name.
func ItemKey(name string) string {
	return "item." + name
}

var messages = map[string]map[string]string{
	English: {
		"internal":                   "Something went wrong. Please try again.",
		"malformed_input":            "Please check the highlighted fields.",
		"unauthorized":               "Your session has ended. Please log in again.",
		"no_match":                   "No household member matches this code and email.",
		"identity_not_validated":     "Enter your household code and email first.",
		"otc_request_failed":         "We could not send the OTP. Please try again.",
		"otc_invalid":                "Invalid OTP. Please try again.",
		"otc_expired_or_invalidated": "This OTP is no longer valid. Please request a new one.",
		"otc_verify_in_flight":       "Your OTP is already being checked.",
		"already_active":             "An OTP was already sent. Please use it or wait for it to expire.",
		"order_confirmation_failed":  "The order could not be placed. Your cart is unchanged.",
		"order_in_flight":            "Your order is already being placed.",
		"order_not_initiated":        "Please start checkout before confirming.",
		"receipt_unavailable":        "The bill is not available right now. You can download it later.",
		"empty_order":                "Your cart is empty.",
		"backend_unavailable":        "The ration service cannot be reached. Please try again.",
		WarnStockBelowLimit:          "Not enough stock for {0}.",

		MsgIdentityMatched:   "Household verified.",
		MsgOTCSent:           "OTP sent to your email.",
		MsgOTCStatus:         "OTP status.",
		MsgOTCVerified:       "OTP verified successfully.",
		MsgSession:           "Current session.",
		MsgLoggedOut:         "You have been logged out.",
		MsgCatalog:           "Available items.",
		MsgCart:              "Your cart.",
		MsgCartUpdated:       "Cart updated.",
		MsgCheckoutStarted:   "OTP sent to confirm your order.",
		MsgCheckoutStatus:    "Checkout status.",
		MsgCheckoutAbandoned: "Checkout cancelled.",
		MsgOrderConfirmed:    "Order placed successfully.",
		MsgMaintenance:       "This service is under maintenance.",
		MsgRouteNotFound:     "Route not found.",
		MsgMethodNotAllowed:  "Method not allowed.",

		InvoiceShop:       "My Ration Shop",
		InvoiceTitle:      "INVOICE",
		InvoiceFamilyID:   "Family ID",
		InvoiceToken:      "Order Token",
		InvoiceDate:       "Order Date",
		InvoiceItem:       "Item",
		InvoiceQuantity:   "Quantity",
		InvoicePrice:      "Price (₹)",
		InvoiceLineTotal:  "Total (₹)",
		InvoiceTotalPrice: "Total Price:",
		InvoiceThanks:     "Thank you for your purchase!",
	},
	Tamil: {
		"internal":                   "ஏதோ தவறு நடந்தது. மீண்டும் முயற்சிக்கவும்.",
		"malformed_input":            "குறிக்கப்பட்ட புலங்களைச் சரிபார்க்கவும்.",
		"unauthorized":               "உங்கள் அமர்வு முடிந்தது. மீண்டும் உள்நுழையவும்.",
		"no_match":                   "இந்த குறியீடு மற்றும் மின்னஞ்சலுக்கு குடும்ப உறுப்பினர் இல்லை.",
		"identity_not_validated":     "முதலில் குடும்ப குறியீடு மற்றும் மின்னஞ்சலை உள்ளிடவும்.",
		"otc_request_failed":         "OTP அனுப்ப முடியவில்லை. மீண்டும் முயற்சிக்கவும்.",
		"otc_invalid":                "தவறான OTP. மீண்டும் முயற்சிக்கவும்.",
		"otc_expired_or_invalidated": "இந்த OTP இனி செல்லாது. புதிய OTP கோரவும்.",
		"otc_verify_in_flight":       "உங்கள் OTP ஏற்கனவே சரிபார்க்கப்படுகிறது.",
		"already_active":             "OTP ஏற்கனவே அனுப்பப்பட்டது. அதைப் பயன்படுத்தவும் அல்லது காலாவதியாகும் வரை காத்திருக்கவும்.",
		"order_confirmation_failed":  "ஆர்டரை செய்ய முடியவில்லை. உங்கள் கூடை மாறவில்லை.",
		"order_in_flight":            "உங்கள் ஆர்டர் ஏற்கனவே செய்யப்படுகிறது.",
		"order_not_initiated":        "உறுதிப்படுத்தும் முன் பணம் செலுத்துதலைத் தொடங்கவும்.",
		"receipt_unavailable":        "பில் இப்போது கிடைக்கவில்லை. பின்னர் பதிவிறக்கலாம்.",
		"empty_order":                "உங்கள் கூடை காலியாக உள்ளது.",
		"backend_unavailable":        "ரேஷன் சேவையை அணுக முடியவில்லை. மீண்டும் முயற்சிக்கவும்.",
		WarnStockBelowLimit:          "{0} க்கு போதுமான இருப்பு இல்லை.",

		MsgIdentityMatched:   "குடும்பம் சரிபார்க்கப்பட்டது.",
		MsgOTCSent:           "OTP உங்கள் மின்னஞ்சலுக்கு அனுப்பப்பட்டது.",
		MsgOTCStatus:         "OTP நிலை.",
		MsgOTCVerified:       "OTP வெற்றிகரமாக சரிபார்க்கப்பட்டது.",
		MsgSession:           "தற்போதைய அமர்வு.",
		MsgLoggedOut:         "நீங்கள் வெளியேறிவிட்டீர்கள்.",
		MsgCatalog:           "கிடைக்கும் பொருட்கள்.",
		MsgCart:              "உங்கள் கூடை.",
		MsgCartUpdated:       "கூடை புதுப்பிக்கப்பட்டது.",
		MsgCheckoutStarted:   "உங்கள் ஆர்டரை உறுதிப்படுத்த OTP அனுப்பப்பட்டது.",
		MsgCheckoutStatus:    "ஆர்டர் நிலை.",
		MsgCheckoutAbandoned: "ஆர்டர் ரத்து செய்யப்பட்டது.",
		MsgOrderConfirmed:    "ஆர்டர் வெற்றிகரமாக செய்யப்பட்டது.",
		MsgMaintenance:       "இந்த சேவை பராமரிப்பில் உள்ளது.",
		MsgRouteNotFound:     "பாதை கிடைக்கவில்லை.",
		MsgMethodNotAllowed:  "இந்த முறை அனுமதிக்கப்படவில்லை.",

		InvoiceShop:       "நியாய விலைக் கடை",
		InvoiceTitle:      "பில்",
		InvoiceFamilyID:   "குடும்ப ஐடி",
		InvoiceToken:      "ஆர்டர் குறியீடு",
		InvoiceDate:       "ஆர்டர் தேதி",
		InvoiceItem:       "பொருள்",
		InvoiceQuantity:   "அளவு",
		InvoicePrice:      "விலை (₹)",
		InvoiceLineTotal:  "மொத்தம் (₹)",
		InvoiceTotalPrice: "மொத்த விலை:",
		InvoiceThanks:     "உங்கள் வாங்குதலுக்கு நன்றி!",

		"item.Rice":     "அரிசி",
		"item.Wheat":    "கோதுமை",
		"item.Sugar":    "சர்க்கரை",
		"item.Oil":      "எண்ணெய்",
		"item.Kerosene": "மண்ணெண்ணெய்",
	},
}
