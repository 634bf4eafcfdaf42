// Package i18n holds the user-facing form messages in Thai and English.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

type Key string

const (
	IdentifierRequired Key = "identifier_required"
	InvalidIdentifier  Key = "invalid_identifier"
	InvalidAmount      Key = "invalid_amount"
	EncodingFailed     Key = "encoding_failed"
	Generated          Key = "generated"
	Copied             Key = "copied"
	CopyFailed         Key = "copy_failed"
	CopyUnsupported    Key = "copy_unsupported"
	NoPayloadToCopy    Key = "no_payload_to_copy"
	NoQRToDownload     Key = "no_qr_to_download"
	PNGDownloaded      Key = "png_downloaded"
	PNGDownloadFailed  Key = "png_download_failed"
	SVGDownloaded      Key = "svg_downloaded"
	SVGDownloadFailed  Key = "svg_download_failed"
)

var supported = []language.Tag{language.Thai, language.English}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[Key]string{
	language.Thai: {
		IdentifierRequired: "กรุณาใส่ PromptPay ID",
		InvalidIdentifier:  "PromptPay ID ต้องเป็นเบอร์มือถือ 10 หลัก หรือ เลขบัตรประชาชน 13 หลัก",
		InvalidAmount:      "จำนวนเงินต้องเป็นตัวเลขที่เป็นบวก",
		EncodingFailed:     "ไม่สามารถสร้าง QR Code ได้: %s",
		Generated:          "สร้าง QR Code สำเร็จ!",
		Copied:             "คัดลอก QR String แล้ว!",
		CopyFailed:         "ไม่สามารถคัดลอกได้ในเบราว์เซอร์นี้",
		CopyUnsupported:    "ไม่รองรับการคัดลอกในเบราว์เซอร์นี้",
		NoPayloadToCopy:    "ไม่มี QR String ให้คัดลอก",
		NoQRToDownload:     "ไม่มี QR Code ให้ดาวน์โหลด",
		PNGDownloaded:      "ดาวน์โหลด QR (PNG) สำเร็จ!",
		PNGDownloadFailed:  "ไม่สามารถดาวน์โหลด QR (PNG) ได้: %s",
		SVGDownloaded:      "ดาวน์โหลด QR (SVG) สำเร็จ!",
		SVGDownloadFailed:  "ไม่สามารถดาวน์โหลด QR (SVG) ได้: %s",
	},
	language.English: {
		IdentifierRequired: "Please enter a PromptPay ID",
		InvalidIdentifier:  "PromptPay ID must be a 10-digit mobile number or a 13-digit national ID",
		InvalidAmount:      "Amount must be a positive number",
		EncodingFailed:     "Could not create the QR code: %s",
		Generated:          "QR code created!",
		Copied:             "QR string copied!",
		CopyFailed:         "Could not copy in this browser",
		CopyUnsupported:    "Copying is not supported in this browser",
		NoPayloadToCopy:    "There is no QR string to copy",
		NoQRToDownload:     "There is no QR code to download",
		PNGDownloaded:      "QR (PNG) downloaded!",
		PNGDownloadFailed:  "Could not download QR (PNG): %s",
		SVGDownloaded:      "QR (SVG) downloaded!",
		SVGDownloadFailed:  "Could not download QR (SVG): %s",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Thai))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, string(key), msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Localizer renders message keys in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a localizer for the supported language closest to lang. Unknown
// or empty input falls back to Thai.
func New(lang string) *Localizer {
	tag := Match(lang, "")
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Match picks a supported language from an Accept-Language style header,
// falling back to the fallback language and then to Thai.
func Match(header, fallback string) language.Tag {
	for _, candidate := range []string{header, fallback} {
		if candidate == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(candidate)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := matcher.Match(tags...)
		if conf != language.No {
			return supported[idx]
		}
	}
	return language.Thai
}

func (l *Localizer) Tag() language.Tag { return l.tag }

// Text renders key with optional arguments for its format verbs.
func (l *Localizer) Text(key Key, args ...any) string {
	return l.printer.Sprintf(string(key), args...)
}
