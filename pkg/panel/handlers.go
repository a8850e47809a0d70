package panel

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/goliatone/go-jsoneditor/pkg/dispatch"
)

const openDataLabel = "Open Data File"

var (
	errNoPayload = errors.New("message has no data")
	errNoBus     = errors.New("command bus not configured")
)

// handlers maps every inbound command to its handler. bind fails when a
// command is missing, so adding a command without a handler is caught the
// first time a panel is created.
func (p *Panel) handlers() map[dispatch.Command]dispatch.Handler {
	return map[dispatch.Command]dispatch.Handler{
		dispatch.CommandLoadData:         p.handleLoadData,
		dispatch.CommandSaveJSON:         p.handleSaveJSON,
		dispatch.CommandExportJSON:       p.handleExportJSON,
		dispatch.CommandOpenConfig:       p.handleOpenConfig,
		dispatch.CommandReloadForm:       p.handleReloadForm,
		dispatch.CommandShowNotification: p.handleShowNotification,
		dispatch.CommandReportIssue:      p.handleReportIssue,
	}
}

func (p *Panel) handleLoadData(ctx context.Context, _ dispatch.Message, target dispatch.Target) error {
	value, ok, err := p.ctrl.resources.LoadViaPicker(ctx, openDataLabel)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	p.dispatcher.PostMessage(ctx, target, dispatch.CommandDataLoaded, value)
	p.ctrl.notifier.Info(ctx, "Data loaded successfully")
	return nil
}

func (p *Panel) handleSaveJSON(ctx context.Context, msg dispatch.Message, _ dispatch.Target) error {
	if !msg.HasData() {
		return errNoPayload
	}
	path, saved, err := p.ctrl.resources.Persist(ctx, msg.Data)
	if err != nil {
		return err
	}
	if saved {
		p.logger.InfoContext(ctx, "data saved", "path", path)
		p.ctrl.notifier.Info(ctx, "JSON file saved successfully")
	}
	return nil
}

func (p *Panel) handleExportJSON(ctx context.Context, msg dispatch.Message, _ dispatch.Target) error {
	if !msg.HasData() {
		return errNoPayload
	}
	if err := p.ctrl.resources.ExportToClipboard(ctx, msg.Data); err != nil {
		return err
	}
	p.ctrl.notifier.Info(ctx, "JSON copied to clipboard")
	return nil
}

func (p *Panel) handleOpenConfig(ctx context.Context, _ dispatch.Message, _ dispatch.Target) error {
	bus := p.ctrl.commandBus()
	if bus == nil {
		return errNoBus
	}
	return bus.Execute(ctx, BusOpenConfig)
}

// handleReloadForm ignores a reload that collides with a running load. Fatal
// load failures were already reported when the error document went up.
func (p *Panel) handleReloadForm(ctx context.Context, _ dispatch.Message, _ dispatch.Target) error {
	err := p.Reload(ctx)
	if err == nil || errors.Is(err, ErrLoadInProgress) || IsFatal(err) {
		return nil
	}
	return err
}

func (p *Panel) handleShowNotification(ctx context.Context, msg dispatch.Message, _ dispatch.Target) error {
	var payload struct {
		Text string `json:"text"`
	}
	if err := msg.Decode(&payload); err != nil {
		return err
	}
	if text := strings.TrimSpace(payload.Text); text != "" {
		p.ctrl.notifier.Info(ctx, text)
	}
	return nil
}

func (p *Panel) handleReportIssue(ctx context.Context, msg dispatch.Message, _ dispatch.Target) error {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := msg.Decode(&payload); err != nil {
		return err
	}
	if text := issueText(payload.Error); text != "" {
		p.ctrl.notifier.Error(ctx, text)
	}
	return nil
}

// issueText accepts a plain string or any other JSON value, which is shown as
// compact JSON.
func issueText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text)
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "null" {
		return ""
	}
	return trimmed
}
