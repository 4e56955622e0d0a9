package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/aninkinaa/mentalwell1.0-api/config"
	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
	"github.com/aninkinaa/mentalwell1.0-api/internal/reconciler"
	"github.com/aninkinaa/mentalwell1.0-api/internal/repository"
	"github.com/aninkinaa/mentalwell1.0-api/pkg/email"
	"github.com/aninkinaa/mentalwell1.0-api/pkg/whatsapp"
)

// WorkerModule registers the counseling reconciler and the NATS notification
// worker.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc          fx.Lifecycle
	Cfg         *config.Config
	NC          *nats.Conn
	Counselings *repository.CounselingRepository
	Convs       *repository.ConversationRepository
	Psychs      *repository.PsychologistRepository
	Loc         *time.Location
	Email       *email.Client
	WhatsApp    *whatsapp.Client
}

func RegisterWorkers(p WorkerParams) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if p.Cfg.Reconciler.Enabled {
				rec := reconciler.New(p.Counselings, p.Convs, p.Psychs, reconciler.NewSystemClockIn(p.Loc), p.Loc, slog.Default())
				interval := time.Duration(p.Cfg.Reconciler.IntervalSeconds) * time.Second
				go func() {
					defer close(done)
					rec.StartPeriodic(runCtx, interval)
				}()
				slog.Info("counseling reconciler started", "interval", interval)
			} else {
				close(done)
			}

			startNotificationWorker(p.NC, p.Counselings, p.Email, p.WhatsApp)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			// NATS drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

// startNotificationWorker delivers payment-decision emails and WhatsApp
// messages. Subjects look like "mentalwell.counseling.payment.approved" with
// the counseling id as payload.
func startNotificationWorker(nc *nats.Conn, counselings *repository.CounselingRepository, emailCli *email.Client, waCli *whatsapp.Client) {
	_, err := nc.Subscribe("mentalwell.counseling.payment.*", func(msg *nats.Msg) {
		parts := strings.Split(msg.Subject, ".")
		if len(parts) < 4 {
			return
		}
		status := model.PaymentStatus(parts[3])

		idStr := strings.TrimSpace(string(msg.Data))
		id, err := uuid.Parse(idStr)
		if err != nil {
			return
		}

		ctx := context.Background()

		detail, err := counselings.GetDetail(ctx, id)
		if err != nil {
			slog.Warn("notification_worker: counseling not found", "id", idStr, "err", err)
			return
		}

		switch status {
		case model.PaymentApproved:
			notifyApproved(ctx, emailCli, waCli, detail)
		case model.PaymentRejected:
			notifyRejected(ctx, emailCli, waCli, detail)
		case model.PaymentRefunded:
			notifyRefunded(ctx, emailCli, waCli, detail)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe counseling.payment failed", "err", err)
	}

	slog.Info("notification_worker: started")
}

func emailData(d model.CounselingDetail) email.CounselingEmailData {
	data := email.CounselingEmailData{
		PatientName:       d.PatientName,
		PatientEmail:      d.PatientEmail,
		PsychologistName:  d.PsychologistName,
		PsychologistEmail: d.PsychologistEmail,
	}
	if d.ScheduleDate != nil {
		data.Date = *d.ScheduleDate
	}
	if d.StartTime != nil && d.EndTime != nil {
		data.TimeRange = clipMinutes(*d.StartTime) + " - " + clipMinutes(*d.EndTime)
	}
	if d.PaymentNote != nil {
		data.Note = *d.PaymentNote
	}
	return data
}

func notifyApproved(ctx context.Context, emailCli *email.Client, waCli *whatsapp.Client, d model.CounselingDetail) {
	data := emailData(d)

	if d.AccessType == model.AccessOnDemand {
		sendEmail(ctx, emailCli, email.BuildPsychologistChatNowEmail(data))
		sendWhatsApp(ctx, waCli, d.PsychologistPhone,
			"Hi "+d.PsychologistName+", "+d.PatientName+" has booked an on-demand session and is waiting for you. Please open the app now.")

		sendEmail(ctx, emailCli, email.BuildPatientConfirmedRealtimeEmail(data))
		sendWhatsApp(ctx, waCli, d.PatientPhone,
			"Hi "+d.PatientName+", your payment is approved. "+d.PsychologistName+" is ready to chat with you now.")
		return
	}

	sendEmail(ctx, emailCli, email.BuildPsychologistNewCounselingEmail(data))
	sendWhatsApp(ctx, waCli, d.PsychologistPhone,
		"Hi "+d.PsychologistName+", a counseling session with "+d.PatientName+" is confirmed for "+data.Date+" at "+data.TimeRange+".")

	sendEmail(ctx, emailCli, email.BuildPatientConfirmedScheduledEmail(data))
	sendWhatsApp(ctx, waCli, d.PatientPhone,
		"Hi "+d.PatientName+", your counseling session with "+d.PsychologistName+" is confirmed for "+data.Date+" at "+data.TimeRange+".")
}

func notifyRejected(ctx context.Context, emailCli *email.Client, waCli *whatsapp.Client, d model.CounselingDetail) {
	data := emailData(d)
	note := data.Note
	if note == "" {
		note = "Your payment proof did not match or could not be verified."
	}

	sendEmail(ctx, emailCli, email.BuildPatientRejectedEmail(data))
	sendWhatsApp(ctx, waCli, d.PatientPhone,
		"Hi "+d.PatientName+", we could not verify your payment. Reason: "+note)
}

func notifyRefunded(ctx context.Context, emailCli *email.Client, waCli *whatsapp.Client, d model.CounselingDetail) {
	data := emailData(d)

	sendEmail(ctx, emailCli, email.BuildPatientRefundedEmail(data))
	sendWhatsApp(ctx, waCli, d.PatientPhone,
		"Hi "+d.PatientName+", your payment has been refunded to your account.")
}

func sendEmail(ctx context.Context, cli *email.Client, m email.Message) {
	if err := cli.Send(ctx, m); err != nil {
		if _, disabled := err.(email.ErrDisabled); disabled {
			return
		}
		slog.Warn("notification_worker: email send failed", "to", m.To, "err", err)
	}
}

func sendWhatsApp(ctx context.Context, cli *whatsapp.Client, phone *string, message string) {
	if phone == nil || *phone == "" {
		return
	}
	if err := cli.Send(ctx, *phone, message); err != nil {
		slog.Warn("notification_worker: whatsapp send failed", "err", err)
	}
}

func clipMinutes(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
