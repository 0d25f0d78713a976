// Package i18n holds the user-visible strings shown by the shop client.
// Keys are the English texts; Vietnamese is the app's default language.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys.
const (
	TitleError   = "Error"
	TitleSuccess = "Success"
	TitleNotice  = "Notice"

	MsgNoToken     = "Token not found, please log in again"
	MsgNoSession   = "You are not logged in, please log in"
	MsgFetchFailed = "Could not load user information!"
	MsgUploadOK    = "Photo uploaded!"
	MsgUploadFail  = "Could not upload the photo"
	MsgOTPSent     = "The OTP code has been sent to your email!"
	MsgOTPFailed   = "Could not send the OTP code!"
	MsgProductName = "Product %d"
)

var vietnamese = map[string]string{
	TitleError:     "Lỗi",
	TitleSuccess:   "Thành công",
	TitleNotice:    "Thông báo",
	MsgNoToken:     "Không tìm thấy token, vui lòng đăng nhập lại",
	MsgNoSession:   "Bạn chưa đăng nhập, vui lòng đăng nhập",
	MsgFetchFailed: "Không thể lấy thông tin người dùng!",
	MsgUploadOK:    "Ảnh đã được tải lên!",
	MsgUploadFail:  "Không thể tải ảnh lên",
	MsgOTPSent:     "Mã OTP đã được gửi đến email của bạn!",
	MsgOTPFailed:   "Không thể gửi mã OTP!",
	MsgProductName: "Sản phẩm %d",
}

func init() {
	for key, msg := range vietnamese {
		if err := message.SetString(language.Vietnamese, key, msg); err != nil {
			panic(fmt.Sprintf("i18n: register %q: %v", key, err))
		}
		if err := message.SetString(language.English, key, key); err != nil {
			panic(fmt.Sprintf("i18n: register %q: %v", key, err))
		}
	}
}

// Tag maps a configured language code to a language tag. Anything other
// than "vi" falls back to English.
func Tag(lang string) language.Tag {
	if lang == "vi" {
		return language.Vietnamese
	}
	return language.English
}

// NewPrinter returns a printer for the configured language code.
func NewPrinter(lang string) *message.Printer {
	return message.NewPrinter(Tag(lang))
}
