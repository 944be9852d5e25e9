package handlers

import (
	"fmt"

	"server/internal/policy"
)

const (
	codeUnauthenticated     = "unauthenticated"
	codeForbidden           = "forbidden"
	codeQuotaExceeded       = "quota_exceeded"
	codeNotFound            = "not_found"
	codeInvalidTitle        = "invalid_title"
	codeBadRequest          = "bad_request"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeInternal            = "internal"
)

// catalog holds the user-facing message per code and locale. The forbidden
// message is deliberately generic: it never reveals whether the resource
// exists under a different owner.
var catalog = map[string]map[string]string{
	"en": {
		codeUnauthenticated:     "missing or invalid session token",
		codeForbidden:           "you are not allowed to perform this action",
		codeQuotaExceeded:       fmt.Sprintf("free users can only create up to %d todos, please subscribe for more", policy.FreeTierTodoLimit),
		codeNotFound:            "resource not found",
		codeInvalidTitle:        "title must not be empty",
		codeBadRequest:          "invalid payload",
		codeUpstreamUnavailable: "a dependency is unavailable, please retry",
		codeInternal:            "internal server error",
	},
	"id": {
		codeUnauthenticated:     "token sesi tidak ada atau tidak valid",
		codeForbidden:           "anda tidak diizinkan melakukan tindakan ini",
		codeQuotaExceeded:       fmt.Sprintf("pengguna gratis hanya dapat membuat maksimal %d todo, silakan berlangganan", policy.FreeTierTodoLimit),
		codeNotFound:            "data tidak ditemukan",
		codeInvalidTitle:        "judul tidak boleh kosong",
		codeBadRequest:          "payload tidak valid",
		codeUpstreamUnavailable: "layanan pendukung sedang tidak tersedia, silakan coba lagi",
		codeInternal:            "terjadi kesalahan internal",
	},
}

func message(locale, code string) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[code]; ok {
			return msg
		}
	}
	if msg, ok := catalog["en"][code]; ok {
		return msg
	}
	return code
}
