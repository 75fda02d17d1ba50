package handler

import (
	"net/http"

	"github.com/waylink/waylink/internal/deeplink"
	"github.com/waylink/waylink/internal/handler/dto"
)

// WellKnownHandler serves the domain association files the mobile
// platforms fetch to verify universal-link ownership. Both files are
// generated from the route table so they never drift from routing.
type WellKnownHandler struct {
	appleAppID          string
	androidPackage      string
	androidFingerprints []string
}

// NewWellKnownHandler creates a new WellKnownHandler.
func NewWellKnownHandler(appleAppID, androidPackage string, androidFingerprints []string) *WellKnownHandler {
	if androidFingerprints == nil {
		androidFingerprints = []string{}
	}
	return &WellKnownHandler{
		appleAppID:          appleAppID,
		androidPackage:      androidPackage,
		androidFingerprints: androidFingerprints,
	}
}

// appleAssociation is the apple-app-site-association document shape.
type appleAssociation struct {
	Applinks appleApplinks `json:"applinks"`
}

type appleApplinks struct {
	Apps    []string      `json:"apps"`
	Details []appleDetail `json:"details"`
}

type appleDetail struct {
	AppID string   `json:"appID"`
	Paths []string `json:"paths"`
}

// assetLinkStatement is one entry of the assetlinks.json document.
type assetLinkStatement struct {
	Relation []string        `json:"relation"`
	Target   assetLinkTarget `json:"target"`
}

type assetLinkTarget struct {
	Namespace              string   `json:"namespace"`
	PackageName            string   `json:"package_name"`
	SHA256CertFingerprints []string `json:"sha256_cert_fingerprints"`
}

// AppleAppSiteAssociation handles GET /.well-known/apple-app-site-association.
// Serving the file with an empty app ID would silently break iOS
// verification, so an unconfigured ID is a 404.
func (h *WellKnownHandler) AppleAppSiteAssociation(w http.ResponseWriter, r *http.Request) {
	if h.appleAppID == "" {
		h.writeNotConfigured(w)
		return
	}

	response := appleAssociation{
		Applinks: appleApplinks{
			Apps: []string{},
			Details: []appleDetail{
				{
					AppID: h.appleAppID,
					Paths: deeplink.AssociationPaths(),
				},
			},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// AssetLinks handles GET /.well-known/assetlinks.json.
func (h *WellKnownHandler) AssetLinks(w http.ResponseWriter, r *http.Request) {
	if h.androidPackage == "" {
		h.writeNotConfigured(w)
		return
	}

	statements := []assetLinkStatement{
		{
			Relation: []string{"delegate_permission/common.handle_all_urls"},
			Target: assetLinkTarget{
				Namespace:              "android_app",
				PackageName:            h.androidPackage,
				SHA256CertFingerprints: h.androidFingerprints,
			},
		},
	}
	writeJSON(w, http.StatusOK, statements)
}

func (h *WellKnownHandler) writeNotConfigured(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
		Error: "association file not configured",
		Code:  "NOT_CONFIGURED",
	})
}
