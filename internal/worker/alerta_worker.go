package worker

// alerta_worker.go
// Processes low-stock jobs from QueueAlertas: logs them and, when SMTP and a
// recipient are configured, mails the warehouse manager.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job body sent to QueueAlertas.
type AlertaStockPayload struct {
	ProductoID  uint   `json:"producto_id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	StockTotal  int    `json:"stock_total"`
	StockMinimo int    `json:"stock_minimo"`
}

// Mailer is the subset of infra.Mailer the alert worker needs.
type Mailer interface {
	Enabled() bool
	Send(to []string, subject, body string, attachments ...string) error
}

type AlertaWorker struct {
	mailer Mailer
	to     string
}

// NewAlertaWorker creates an AlertaWorker. An empty to only logs alerts.
func NewAlertaWorker(mailer Mailer, to string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, to: to}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p AlertaStockPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("alerta_worker: invalid payload: %w", err)
	}

	log.Warn().
		Uint("producto_id", p.ProductoID).
		Str("codigo", p.Codigo).
		Int("stock_total", p.StockTotal).
		Int("stock_minimo", p.StockMinimo).
		Msg("alerta_worker: stock bajo")

	if w.to == "" || w.mailer == nil || !w.mailer.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s (%s)", p.Nombre, p.Codigo)
	body := fmt.Sprintf("El producto %s (%s) tiene %d unidades en total; el mínimo configurado es %d.\n",
		p.Nombre, p.Codigo, p.StockTotal, p.StockMinimo)
	if err := w.mailer.Send([]string{w.to}, subject, body); err != nil {
		return fmt.Errorf("alerta_worker: send: %w", err)
	}
	log.Info().Str("to", w.to).Uint("producto_id", p.ProductoID).Msg("alerta_worker: alert sent")
	return nil
}
