// Package convert turns conversation turns into the content blocks the
// agent runtime accepts. A turn is converted into ordered openai-go
// content parts: text parts for text segments, an image part for each
// image attachment, a file part for each document attachment. The
// source ThreadItem is never mutated; conversion produces a derived
// representation and drops the raw bytes when it returns.
package convert

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/attach"
	"github.com/cekat/assistant-gateway/pkg/gwerrors"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Part is one ordered segment of a turn: either text or an attachment
// reference, never both.
type Part struct {
	Text       string
	Attachment *attach.Ref
}

// ThreadItem is one submitted conversation turn. Immutable once
// submitted; the converter only ever reads it.
type ThreadItem struct {
	ID    string
	Role  Role
	Parts []Part
}

// Text concatenates the item's text segments, space separated.
func (ti ThreadItem) Text() string {
	var out string
	for _, p := range ti.Parts {
		if p.Text == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p.Text
	}
	return out
}

// FailurePolicy controls what Convert does when an attachment cannot
// be turned into a content block (unsupported mime type or unreadable
// bytes).
type FailurePolicy int

const (
	// SkipAndWarn replaces the attachment with a text placeholder and
	// logs a warning. This is the default: it matches the behavior of
	// keeping the turn alive at the cost of a degraded input.
	SkipAndWarn FailurePolicy = iota
	// Propagate fails the whole conversion with the underlying error.
	Propagate
)

// Converter builds agent input blocks from thread items.
type Converter struct {
	reader attach.Reader
	policy FailurePolicy
	log    zerolog.Logger
}

// NewConverter creates a converter that resolves attachment bytes
// through reader. The failure policy applies uniformly to every
// attachment in every turn.
func NewConverter(reader attach.Reader, policy FailurePolicy, log zerolog.Logger) *Converter {
	return &Converter{
		reader: reader,
		policy: policy,
		log:    log.With().Str("component", "convert").Logger(),
	}
}

// Convert resolves the turn into ordered content parts. Text and
// attachment blocks keep the order they had in the turn.
func (c *Converter) Convert(ctx context.Context, item ThreadItem) ([]openai.ChatCompletionContentPartUnionParam, error) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(item.Parts))
	for _, part := range item.Parts {
		switch {
		case part.Attachment != nil:
			block, err := c.attachmentBlock(ctx, *part.Attachment)
			if err != nil {
				if c.policy == Propagate {
					return nil, err
				}
				c.log.Warn().Err(err).
					Str("attachment_id", part.Attachment.ID).
					Str("mime_type", part.Attachment.MimeType).
					Msg("Dropping attachment from agent input")
				parts = append(parts, textPart(attachmentPlaceholder(*part.Attachment, err)))
				continue
			}
			parts = append(parts, block)
		case part.Text != "":
			parts = append(parts, textPart(part.Text))
		}
	}
	return parts, nil
}

// attachmentBlock maps one attachment to a content part. Images become
// image blocks; PDFs become file blocks. The agent runtime accepts no
// other document types as file input, so anything else is unsupported.
func (c *Converter) attachmentBlock(ctx context.Context, ref attach.Ref) (openai.ChatCompletionContentPartUnionParam, error) {
	var zero openai.ChatCompletionContentPartUnionParam
	if !ref.IsImage() && ref.MimeType != "application/pdf" {
		return zero, fmt.Errorf("attachment %s (%s): %w", ref.ID, ref.MimeType, gwerrors.ErrUnsupportedAttachmentType)
	}

	data, err := c.reader.Read(ctx, ref)
	if err != nil {
		return zero, fmt.Errorf("attachment %s: %w", ref.ID, err)
	}
	dataURL := buildDataURL(ref.MimeType, data)

	if ref.IsImage() {
		return openai.ChatCompletionContentPartUnionParam{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL:    dataURL,
					Detail: "auto",
				},
			},
		}, nil
	}

	filename := ref.Name
	if filename == "" {
		filename = "document.pdf"
	}
	return openai.ChatCompletionContentPartUnionParam{
		OfFile: &openai.ChatCompletionContentPartFileParam{
			File: openai.ChatCompletionContentPartFileFileParam{
				FileData: openai.String(dataURL),
				Filename: openai.String(filename),
			},
		},
	}, nil
}

func textPart(text string) openai.ChatCompletionContentPartUnionParam {
	return openai.ChatCompletionContentPartUnionParam{
		OfText: &openai.ChatCompletionContentPartTextParam{Text: text},
	}
}

func attachmentPlaceholder(ref attach.Ref, err error) string {
	name := ref.Name
	if name == "" {
		name = ref.ID
	}
	if gwerrors.IsAttachmentUnavailable(err) {
		return fmt.Sprintf("[Attachment: %s (failed to load)]", name)
	}
	return fmt.Sprintf("[Attachment: %s (unsupported type %s)]", name, ref.MimeType)
}

func buildDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
