package formctl

import "errors"

// User-facing messages of the submission page.
const (
	MsgIncomplete        = "Lengkapi semua field dan pilih file."
	MsgBranchUnavailable = "Cabang belum diinput untuk akun ini."
	MsgLocationsFailed   = "Gagal memuat nomor ulok."
	MsgWorkScopesFailed  = "Gagal memuat lingkup kerja."
	MsgSaveFailed        = "Terjadi kesalahan saat menyimpan."
	MsgSaved             = "Dokumen berhasil disimpan."
)

var (
	ErrIncomplete    = errors.New(MsgIncomplete)
	ErrBusy          = errors.New("form is being submitted")
	ErrFieldDisabled = errors.New("field is disabled until the previous field is chosen")

	errNoRecord = errors.New("store returned no record")
)

// message picks the text shown to the user for err.
func message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
