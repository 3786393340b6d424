package utils

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/wneessen/go-mail"

	"velora_back_end/internal/models"
)

func sendEmail(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@velora.shop"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "ssl0.ovh.net"
	}

	client, err := mail.NewClient(host,
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

func emailLayout(title, body string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		%s
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Velora</strong>
		</p>
	</div>
</body>
</html>`, title, body)
}

func orderItemsTable(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">%s (%s, %s)</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.Name, item.Size, item.Color, item.Quantity, item.Price, item.Subtotal)
	}

	return fmt.Sprintf(`
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Article</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Sous-total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f€</td>
				</tr>
			</tfoot>
		</table>`, itemsHTML, order.OrderSummary.Total)
}

// SendOrderConfirmationEmail envoie le récapitulatif après la création d'une commande.
func SendOrderConfirmationEmail(order models.Order) error {
	body := fmt.Sprintf(`
		<h2 style="color: #333;">Confirmation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>%s</strong> a été confirmée avec succès.</p>
		<h3>Détails de la commande</h3>
		%s`, order.OrderID, orderItemsTable(order))

	subject := fmt.Sprintf("Confirmation de commande %s", order.OrderID)
	return sendEmail(order.UserEmail, subject, emailLayout("Confirmation de commande", body))
}

// SendCancellationEmail informe le client de l'annulation. manual indique que le
// remboursement sera traité manuellement par le service client.
func SendCancellationEmail(order models.Order, manual bool) error {
	refundInfo := ""
	switch {
	case order.RefundDetails != nil && manual:
		refundInfo = fmt.Sprintf(`<p>Le remboursement de <strong>%.2f€</strong> sera traité manuellement
			par notre équipe sous 2 à 3 jours ouvrés.</p>`, order.OrderSummary.Total)
	case order.RefundDetails != nil && order.RefundDetails.RefundID != "":
		refundInfo = fmt.Sprintf(`<p>Un remboursement de <strong>%.2f€</strong> a été initié
			(référence %s). Il apparaîtra sur votre compte sous 5 à 7 jours ouvrés.</p>`,
			order.RefundDetails.Amount, order.RefundDetails.RefundID)
	default:
		refundInfo = `<p>Aucun paiement n'était associé à cette commande, aucun remboursement n'est nécessaire.</p>`
	}

	body := fmt.Sprintf(`
		<h2 style="color: #333;">Annulation de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>%s</strong> a bien été annulée.</p>
		%s`, order.OrderID, refundInfo)

	subject := fmt.Sprintf("Annulation de la commande %s", order.OrderID)
	return sendEmail(order.UserEmail, subject, emailLayout("Annulation de commande", body))
}

var statusLabels = map[string]string{
	models.StatusPending:    "en attente",
	models.StatusConfirmed:  "confirmée",
	models.StatusProcessing: "en préparation",
	models.StatusShipped:    "expédiée",
	models.StatusDelivered:  "livrée",
	models.StatusCancelled:  "annulée",
}

// SendOrderStatusEmail notifie le client d'un changement de statut par un admin.
func SendOrderStatusEmail(order models.Order) error {
	label, ok := statusLabels[order.Status]
	if !ok {
		label = order.Status
	}

	delivery := ""
	if order.EstimatedDelivery != nil {
		delivery = fmt.Sprintf(`<p>Livraison estimée: <strong>%s</strong></p>`,
			order.EstimatedDelivery.Format("02/01/2006"))
	}

	body := fmt.Sprintf(`
		<h2 style="color: #333;">Mise à jour de votre commande</h2>
		<p>Bonjour,</p>
		<p>Votre commande <strong>%s</strong> est maintenant <strong>%s</strong>.</p>
		%s`, order.OrderID, strings.ToUpper(label[:1])+label[1:], delivery)

	subject := fmt.Sprintf("Votre commande %s est %s", order.OrderID, label)
	return sendEmail(order.UserEmail, subject, emailLayout("Mise à jour de commande", body))
}
