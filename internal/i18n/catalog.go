package i18n

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                     "Invalid request parameters",
		"error.unauthorized":                    "Please log in first",
		"error.forbidden":                       "You do not have permission to perform this action",
		"error.token_invalid":                   "Session expired, please log in again",
		"error.too_many_requests":               "Too many requests, please try again later",
		"error.rate_limited":                    "Too many attempts, please try again in %d seconds",
		"error.internal":                        "Something went wrong, please try again",
		"error.login_invalid":                   "Incorrect username or password",
		"error.password_weak":                   "Password must be at least 8 characters",
		"error.password_mismatch":               "Current password is incorrect",
		"error.save_failed":                     "Failed to save",
		"error.delete_failed":                   "Failed to delete",
		"error.not_found":                       "Resource not found",
		"error.slug_exists":                     "Slug already exists",
		"error.category_not_found":              "Category not found",
		"error.category_in_use":                 "Category still has products",
		"error.collection_not_found":            "Collection not found",
		"error.product_not_found":               "Product not found",
		"error.product_fetch_failed":            "Failed to load products",
		"error.product_price_invalid":           "Price must be greater than zero",
		"error.product_not_available":           "Product is not available",
		"error.product_out_of_stock":            "%s is out of stock",
		"error.banner_not_found":                "Banner not found",
		"error.banner_invalid":                  "Banner image is required",
		"error.coupon_not_found":                "Coupon not found",
		"error.coupon_code_exists":              "Coupon code already exists",
		"error.coupon_invalid":                  "Coupon settings are invalid",
		"error.coupon_window_invalid":           "Valid from must be earlier than valid until",
		"error.coupon_percentage_invalid":       "Percentage discount must be between 0 and 100",
		"error.coupon_value_invalid":            "Discount value must not be negative",
		"error.coupon_scope_invalid":            "Select at least one item for a restricted coupon",
		"error.coupon_limit_invalid":            "Usage limits must not be negative",
		"error.coupon_fetch_failed":             "Failed to load coupons",
		"error.order_not_found":                 "Order not found",
		"error.order_fetch_failed":              "Failed to load order",
		"error.order_create_failed":             "Failed to place order",
		"error.order_item_invalid":              "Order items are invalid",
		"error.order_customer_invalid":          "Name, email and phone are required",
		"error.order_status_invalid":            "Order status cannot be changed to this value",
		"error.order_not_payable":               "Order can no longer be paid",
		"error.order_not_cancelable":            "Only unpaid orders can be canceled",
		"error.payment_channel_not_found":       "Payment method not found",
		"error.payment_channel_invalid":         "Payment method configuration is invalid",
		"error.payment_provider_not_supported":  "This payment method is not supported yet",
		"error.payment_gateway_failed":          "Payment gateway is unavailable, please try again",
		"error.payment_not_found":               "Payment not found",
		"error.payment_signature_invalid":       "Payment verification failed",
		"error.payment_amount_mismatch":         "Payment amount does not match the order",
		"error.config_fetch_failed":             "Failed to load configuration",
		"error.role_invalid":                    "Unknown role",
		"error.catalog_invalid":                 "Name and slug are required",
		"error.range_invalid":                   "Unsupported date range",
	},
	LocaleHI: {
		"error.bad_request":          "अनुरोध पैरामीटर अमान्य हैं",
		"error.unauthorized":         "कृपया पहले लॉग इन करें",
		"error.forbidden":            "आपको यह कार्य करने की अनुमति नहीं है",
		"error.too_many_requests":    "बहुत अधिक अनुरोध, कृपया बाद में प्रयास करें",
		"error.rate_limited":         "बहुत अधिक प्रयास, कृपया %d सेकंड बाद पुनः प्रयास करें",
		"error.internal":             "कुछ गलत हो गया, कृपया पुनः प्रयास करें",
		"error.login_invalid":        "गलत उपयोगकर्ता नाम या पासवर्ड",
		"error.product_not_found":    "उत्पाद नहीं मिला",
		"error.product_out_of_stock": "%s स्टॉक में नहीं है",
		"error.order_not_found":      "ऑर्डर नहीं मिला",
		"error.order_create_failed":  "ऑर्डर नहीं हो सका",
		"error.coupon_not_found":     "कूपन नहीं मिला",
	},
}
