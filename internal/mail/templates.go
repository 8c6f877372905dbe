package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/unwrap-cash/unwrap/internal/giftcard"
)

var subjects = map[giftcard.Template]string{
	giftcard.TemplateDefault:  "You've received a cUSD gift card!",
	giftcard.TemplateBirthday: "Happy Birthday! A cUSD gift card is waiting for you",
	giftcard.TemplateHoliday:  "Happy Holidays! A cUSD gift card is waiting for you",
}

var bodies = map[giftcard.Template]*template.Template{
	giftcard.TemplateDefault: template.Must(template.New("default").Parse(`
<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
  <h1>You've received a gift card!</h1>
  {{if .SenderName}}<p>{{.SenderName}} sent you <strong>{{.Amount}} cUSD</strong>.</p>
  {{else}}<p>Someone sent you <strong>{{.Amount}} cUSD</strong>.</p>{{end}}
  {{if .Message}}<blockquote style="border-left:3px solid #ccc;padding-left:12px">{{.Message}}</blockquote>{{end}}
  <p>Redeem it with this code:</p>
  <p style="font-size:24px;letter-spacing:2px;font-family:monospace"><strong>{{.RedemptionCode}}</strong></p>
  <p>Visit <a href="https://unwrap.cash/redeem">unwrap.cash/redeem</a> and enter the code. The card expires 30 days after it was created.</p>
</div>`)),
	giftcard.TemplateBirthday: template.Must(template.New("birthday").Parse(`
<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
  <h1>🎂 Happy Birthday!</h1>
  {{if .SenderName}}<p>{{.SenderName}} sent you a birthday gift of <strong>{{.Amount}} cUSD</strong>.</p>
  {{else}}<p>You've received a birthday gift of <strong>{{.Amount}} cUSD</strong>.</p>{{end}}
  {{if .Message}}<blockquote style="border-left:3px solid #ccc;padding-left:12px">{{.Message}}</blockquote>{{end}}
  <p>Redeem it with this code:</p>
  <p style="font-size:24px;letter-spacing:2px;font-family:monospace"><strong>{{.RedemptionCode}}</strong></p>
  <p>Visit <a href="https://unwrap.cash/redeem">unwrap.cash/redeem</a> and enter the code. The card expires 30 days after it was created.</p>
</div>`)),
	giftcard.TemplateHoliday: template.Must(template.New("holiday").Parse(`
<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
  <h1>🎄 Happy Holidays!</h1>
  {{if .SenderName}}<p>{{.SenderName}} sent you a holiday gift of <strong>{{.Amount}} cUSD</strong>.</p>
  {{else}}<p>You've received a holiday gift of <strong>{{.Amount}} cUSD</strong>.</p>{{end}}
  {{if .Message}}<blockquote style="border-left:3px solid #ccc;padding-left:12px">{{.Message}}</blockquote>{{end}}
  <p>Redeem it with this code:</p>
  <p style="font-size:24px;letter-spacing:2px;font-family:monospace"><strong>{{.RedemptionCode}}</strong></p>
  <p>Visit <a href="https://unwrap.cash/redeem">unwrap.cash/redeem</a> and enter the code. The card expires 30 days after it was created.</p>
</div>`)),
}

// Render produces the subject and HTML body for a gift card email. Unknown
// occasions fall back to the default template.
func Render(g GiftCardEmail) (subject, html string, err error) {
	tpl := g.Template
	if _, ok := bodies[tpl]; !ok {
		tpl = giftcard.TemplateDefault
	}
	var buf bytes.Buffer
	if err := bodies[tpl].Execute(&buf, g); err != nil {
		return "", "", fmt.Errorf("render %s template: %w", tpl, err)
	}
	return subjects[tpl], buf.String(), nil
}
