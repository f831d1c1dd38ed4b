package workers

import (
	"context"
	"log"

	"streakup/services"
)

// CertificateNotifyWorker decouples certificate emails from request handling:
// handlers enqueue, this worker delivers. A full queue or a mail-service
// outage costs a log line, never a failed request.
type CertificateNotifyWorker struct {
	client *services.MailServiceClient
	queue  chan services.CertificateNotice
}

func NewCertificateNotifyWorker(client *services.MailServiceClient) *CertificateNotifyWorker {
	return &CertificateNotifyWorker{
		client: client,
		queue:  make(chan services.CertificateNotice, 256),
	}
}

// NotifyCertificate implements services.Notifier. Non-blocking: when the
// queue is full the notice is dropped and logged.
func (w *CertificateNotifyWorker) NotifyCertificate(notice services.CertificateNotice) {
	select {
	case w.queue <- notice:
	default:
		log.Printf("⚠️ Certificate notice queue full, dropping notice for %s (%s)", notice.RecipientEmail, notice.Rank)
	}
}

// Start drains the queue until ctx is cancelled.
func (w *CertificateNotifyWorker) Start(ctx context.Context) {
	log.Println("📬 Starting certificate notify worker...")
	go func() {
		for {
			select {
			case notice := <-w.queue:
				if err := w.client.SendCertificateNotice(notice); err != nil {
					log.Printf("❌ Certificate notice delivery failed for %s (%s): %v",
						notice.RecipientEmail, notice.Rank, err)
				}
			case <-ctx.Done():
				log.Println("⏹️ Certificate notify worker stopped")
				return
			}
		}
	}()
}
