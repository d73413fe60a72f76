package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// QuestionType selects how a question is rendered and which Content variant it carries.
type QuestionType string

const (
	QuestionImage          QuestionType = "image"
	QuestionText           QuestionType = "text"
	QuestionDragDrop       QuestionType = "drag-drop"
	QuestionAudio          QuestionType = "audio"
	QuestionSocial         QuestionType = "social"
	QuestionVideo          QuestionType = "video"
	QuestionMultipleChoice QuestionType = "multiple-choice"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionImage, QuestionText, QuestionDragDrop, QuestionAudio,
		QuestionSocial, QuestionVideo, QuestionMultipleChoice:
		return true
	}
	return false
}

// Question is a single challenge item belonging to a mission.
type Question struct {
	ID            string
	MissionID     string
	Type          QuestionType
	QuestionText  string
	Content       Content
	CorrectAnswer string
	Explanation   string
	NewsURL       *string
	Order         int
}

type questionJSON struct {
	ID            string          `json:"id"`
	MissionID     string          `json:"missionId"`
	Type          QuestionType    `json:"type"`
	QuestionText  string          `json:"questionText"`
	Content       json.RawMessage `json:"content"`
	CorrectAnswer string          `json:"correctAnswer"`
	Explanation   string          `json:"explanation"`
	NewsURL       *string         `json:"newsUrl"`
	Order         int             `json:"order"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	content := json.RawMessage("null")
	if q.Content != nil {
		raw, err := json.Marshal(q.Content)
		if err != nil {
			return nil, fmt.Errorf("marshal content of %s: %w", q.ID, err)
		}
		content = raw
	}
	return json.Marshal(questionJSON{
		ID:            q.ID,
		MissionID:     q.MissionID,
		Type:          q.Type,
		QuestionText:  q.QuestionText,
		Content:       content,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		NewsURL:       q.NewsURL,
		Order:         q.Order,
	})
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content, err := DecodeContent(raw.Type, raw.Content)
	if err != nil {
		return err
	}
	*q = Question{
		ID:            raw.ID,
		MissionID:     raw.MissionID,
		Type:          raw.Type,
		QuestionText:  raw.QuestionText,
		Content:       content,
		CorrectAnswer: raw.CorrectAnswer,
		Explanation:   raw.Explanation,
		NewsURL:       raw.NewsURL,
		Order:         raw.Order,
	}
	return nil
}

// Validate checks that the content variant matches the declared type.
func (q Question) Validate() error {
	if q.ID == "" {
		return Invalid("id", "is required")
	}
	if q.MissionID == "" {
		return Invalid("missionId", "is required")
	}
	if !q.Type.Valid() {
		return Invalid("type", fmt.Sprintf("unknown question type %q", q.Type))
	}
	if q.Content == nil {
		return Invalid("content", "is required")
	}
	if q.Content.Kind() != q.Type {
		return Invalid("content", fmt.Sprintf("%s content on %s question", q.Content.Kind(), q.Type))
	}
	return nil
}

// Clone returns a deep copy; the NewsURL pointer and content slices are not shared.
func (q Question) Clone() Question {
	out := q
	if q.NewsURL != nil {
		url := *q.NewsURL
		out.NewsURL = &url
	}
	out.Content = cloneContent(q.Content)
	return out
}

func cloneContent(c Content) Content {
	switch v := c.(type) {
	case ImageContent:
		v.Options = append([]ImageOption(nil), v.Options...)
		return v
	case TextContent:
		v.Options = append([]TextOption(nil), v.Options...)
		return v
	case MediaContent:
		v.Options = append([]TextOption(nil), v.Options...)
		return v
	case DragDropContent:
		v.Items = append([]string(nil), v.Items...)
		v.Targets = append([]string(nil), v.Targets...)
		return v
	default:
		return c
	}
}

// Content is the type-specific payload of a question. The set of
// implementations is closed: ImageContent, TextContent, MediaContent and
// DragDropContent.
type Content interface {
	Kind() QuestionType
	content()
}

// ImageOption is a lettered picture choice.
type ImageOption struct {
	Key  string `json:"-"`
	Img  string `json:"img"`
	IsAI bool   `json:"isAI"`
}

// TextOption is a lettered text choice.
type TextOption struct {
	Key  string `json:"-"`
	Text string `json:"text"`
	IsAI bool   `json:"isAI"`
}

type ImageContent struct {
	Options []ImageOption
}

// TextContent backs text, social and multiple-choice questions.
type TextContent struct {
	Type    QuestionType
	Options []TextOption
}

// MediaContent backs audio and video questions.
type MediaContent struct {
	Type     QuestionType
	MediaURL string
	Options  []TextOption
}

type DragDropContent struct {
	Items   []string `json:"items"`
	Targets []string `json:"targets"`
}

func (ImageContent) Kind() QuestionType    { return QuestionImage }
func (c TextContent) Kind() QuestionType   { return c.Type }
func (c MediaContent) Kind() QuestionType  { return c.Type }
func (DragDropContent) Kind() QuestionType { return QuestionDragDrop }

func (ImageContent) content()    {}
func (TextContent) content()     {}
func (MediaContent) content()    {}
func (DragDropContent) content() {}

const optionPrefix = "option"

func (c ImageContent) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Options))
	for _, opt := range c.Options {
		out[optionPrefix+opt.Key] = opt
	}
	return json.Marshal(out)
}

func (c TextContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(textOptionMap(c.Options, nil))
}

func (c MediaContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(textOptionMap(c.Options, map[string]any{"mediaUrl": c.MediaURL}))
}

func textOptionMap(options []TextOption, extra map[string]any) map[string]any {
	out := make(map[string]any, len(options)+len(extra))
	for k, v := range extra {
		out[k] = v
	}
	for _, opt := range options {
		out[optionPrefix+opt.Key] = opt
	}
	return out
}

// DecodeContent decodes raw JSON into the Content variant for the given type.
// Empty or null input yields nil content.
func DecodeContent(t QuestionType, raw []byte) (Content, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	switch t {
	case QuestionImage:
		fields, keys, err := letteredFields(raw)
		if err != nil {
			return nil, err
		}
		c := ImageContent{Options: make([]ImageOption, 0, len(keys))}
		for _, key := range keys {
			var opt ImageOption
			if err := json.Unmarshal(fields[optionPrefix+key], &opt); err != nil {
				return nil, fmt.Errorf("decode image option %s: %w", key, err)
			}
			opt.Key = key
			c.Options = append(c.Options, opt)
		}
		return c, nil
	case QuestionText, QuestionSocial, QuestionMultipleChoice:
		options, _, err := decodeTextOptions(raw)
		if err != nil {
			return nil, err
		}
		return TextContent{Type: t, Options: options}, nil
	case QuestionAudio, QuestionVideo:
		options, fields, err := decodeTextOptions(raw)
		if err != nil {
			return nil, err
		}
		c := MediaContent{Type: t, Options: options}
		if rawURL, ok := fields["mediaUrl"]; ok {
			if err := json.Unmarshal(rawURL, &c.MediaURL); err != nil {
				return nil, fmt.Errorf("decode mediaUrl: %w", err)
			}
		}
		return c, nil
	case QuestionDragDrop:
		var c DragDropContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode drag-drop content: %w", err)
		}
		return c, nil
	default:
		return nil, Invalid("type", fmt.Sprintf("unknown question type %q", t))
	}
}

func decodeTextOptions(raw []byte) ([]TextOption, map[string]json.RawMessage, error) {
	fields, keys, err := letteredFields(raw)
	if err != nil {
		return nil, nil, err
	}
	options := make([]TextOption, 0, len(keys))
	for _, key := range keys {
		var opt TextOption
		if err := json.Unmarshal(fields[optionPrefix+key], &opt); err != nil {
			return nil, nil, fmt.Errorf("decode text option %s: %w", key, err)
		}
		opt.Key = key
		options = append(options, opt)
	}
	return options, fields, nil
}

// letteredFields returns the object fields plus the sorted option letters.
func letteredFields(raw []byte) (map[string]json.RawMessage, []string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, nil, fmt.Errorf("decode content: %w", err)
	}
	keys := make([]string, 0, len(fields))
	for name := range fields {
		if key, ok := strings.CutPrefix(name, optionPrefix); ok && key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return fields, keys, nil
}
