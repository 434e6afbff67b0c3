package email

import (
	"context"
	"fmt"

	"EasyFinder/internal/ports"
)

// NDASubject is the subject line of the demo invitation.
const NDASubject = "Private Demo & NDA - EasyFinder AI"

// NDAOutreach renders the NDA invitation and hands it to a Sender.
type NDAOutreach struct {
	renderer *Renderer
	sender   Sender
	subject  string
}

var _ ports.Outreach = (*NDAOutreach)(nil)

// NewNDAOutreach wires a renderer and a sender.
func NewNDAOutreach(renderer *Renderer, sender Sender) *NDAOutreach {
	return &NDAOutreach{renderer: renderer, sender: sender, subject: NDASubject}
}

// SendNDA renders and delivers the invitation.
func (o *NDAOutreach) SendNDA(ctx context.Context, to, name, company string) (bool, error) {
	if o.renderer == nil || o.sender == nil {
		return false, fmt.Errorf("outreach misconfigured")
	}

	htmlBody, textBody, err := o.renderer.Render(TemplateData{Name: name, Company: company})
	if err != nil {
		return false, err
	}

	err = o.sender.Send(ctx, Message{
		To:      to,
		ToName:  name,
		Subject: o.subject,
		Text:    textBody,
		HTML:    htmlBody,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
