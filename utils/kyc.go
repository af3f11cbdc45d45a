package utils

import "marketplace/entity"

// KYCStatusInfo is what clients need to draw the verification banner.
type KYCStatusInfo struct {
	Status      string `json:"status"`
	Text        string `json:"text"`
	Color       string `json:"color"`
	BgColor     string `json:"bgColor"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var kycStatusInfo = map[string]KYCStatusInfo{
	entity.KYCStatusPending: {
		Status:      entity.KYCStatusPending,
		Text:        "Under Review",
		Color:       "yellow",
		BgColor:     "bg-yellow-50",
		Icon:        "clock",
		Description: "Your documents are being reviewed. This usually takes 1-2 business days.",
	},
	entity.KYCStatusVerified: {
		Status:      entity.KYCStatusVerified,
		Text:        "Verified",
		Color:       "green",
		BgColor:     "bg-green-50",
		Icon:        "check-circle",
		Description: "Your identity has been verified.",
	},
	entity.KYCStatusRejected: {
		Status:      entity.KYCStatusRejected,
		Text:        "Rejected",
		Color:       "red",
		BgColor:     "bg-red-50",
		Icon:        "x-circle",
		Description: "Your verification was rejected. Please review the reason and resubmit your documents.",
	},
}

var kycNotVerified = KYCStatusInfo{
	Status:      entity.KYCStatusNotSubmitted,
	Text:        "Not Verified",
	Color:       "gray",
	BgColor:     "bg-gray-50",
	Icon:        "shield",
	Description: "Complete identity verification to unlock all features.",
}

// GetKYCStatusInfo maps a KYC status to its display info. Unknown and empty
// statuses get the "Not Verified" entry.
func GetKYCStatusInfo(status string) KYCStatusInfo {
	if info, ok := kycStatusInfo[status]; ok {
		return info
	}
	return kycNotVerified
}

// IsKYCVerified gates features behind identity verification.
// Verification enforcement is switched off: every user passes.
func IsKYCVerified(user *entity.User) bool {
	return true
}

// NeedsKYC reports whether the user must be sent through verification.
// Verification enforcement is switched off: nobody is asked.
func NeedsKYC(user *entity.User) bool {
	return false
}
