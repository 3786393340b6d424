package utils

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// GenerateUPIQR génère un QR de paiement UPI (PNG) pour une commande.
// L'URI suit le schéma upi://pay avec le montant en décimal.
func GenerateUPIQR(orderID string, amount float64) ([]byte, error) {
	vpa := os.Getenv("UPI_VPA")
	if vpa == "" {
		vpa = "velora@upi"
	}
	payee := os.Getenv("UPI_PAYEE_NAME")
	if payee == "" {
		payee = "Velora"
	}

	q := url.Values{}
	q.Set("pa", vpa)
	q.Set("pn", payee)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("cu", "INR")
	q.Set("tn", fmt.Sprintf("Commande %s", orderID))

	uri := "upi://pay?" + q.Encode()
	return qrcode.Encode(uri, qrcode.Medium, 256)
}

// RenderInvoicePDF charge la page facture du front et l'imprime en PDF via Chrome headless.
func RenderInvoicePDF(parent context.Context, orderID string) ([]byte, error) {
	q := url.Values{}
	q.Set("id", orderID)
	fullURL := fmt.Sprintf("%s?%s", frontendInvoiceBaseURL(), q.Encode())

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}

func frontendInvoiceBaseURL() string {
	u := os.Getenv("FRONTEND_INVOICE_URL")
	if u == "" {
		// fallback local dev
		return "http://localhost:3000/invoice"
	}
	return u
}
