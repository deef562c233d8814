package stubserver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/soyeahso/relay/internal/domain"
)

type specialist struct {
	agent      domain.AgentType
	name       string
	desc       string
	keywords   []string
	confidence float64
	tools      []string
}

var specialists = []specialist{
	{
		agent:      domain.AgentOrder,
		name:       "Order Agent",
		desc:       "Handles order tracking, delivery status, modifications and shipping updates.",
		keywords:   []string{"order", "track", "delivery", "deliver", "shipping", "shipped", "package", "ord-"},
		confidence: 0.95,
		tools:      []string{"fetch_order_details", "check_delivery_status", "get_user_orders"},
	},
	{
		agent:      domain.AgentBilling,
		name:       "Billing Agent",
		desc:       "Manages invoices, refund requests, payment history and financial inquiries.",
		keywords:   []string{"invoice", "refund", "payment", "bill", "charge", "paid", "inv-"},
		confidence: 0.93,
		tools:      []string{"get_invoice_details", "check_refund_status", "get_payment_history"},
	},
	{
		agent:      domain.AgentSupport,
		name:       "Support Agent",
		desc:       "Handles general inquiries, account management and troubleshooting.",
		confidence: 0.7,
		tools:      []string{"query_conversation_history"},
	},
}

func lookup(agent domain.AgentType) (specialist, bool) {
	for _, s := range specialists {
		if s.agent == agent {
			return s, true
		}
	}
	return specialist{}, false
}

var (
	orderRef   = regexp.MustCompile(`(?i)(\bORD-\d{4}-\d{4}\b|#\d{3,})`)
	invoiceRef = regexp.MustCompile(`(?i)\bINV-\d{4}-\d{3}\b`)
)

// Route picks the specialist whose keywords occur most often in message.
// Ties go to the earlier specialist; no match goes to support.
func Route(message string) domain.Routing {
	lower := strings.ToLower(message)

	best, bestHits := specialists[len(specialists)-1], 0
	var matched []string
	for _, s := range specialists {
		var hits []string
		for _, kw := range s.keywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, strings.TrimSuffix(kw, "-"))
			}
		}
		if len(hits) > bestHits {
			best, bestHits, matched = s, len(hits), hits
		}
	}

	reasoning := "No order or billing keywords found, routing to general support"
	if bestHits > 0 {
		reasoning = fmt.Sprintf("Query mentions %s, routing to %s", strings.Join(matched, ", "), best.name)
	}
	return domain.Routing{
		Agent:      best.agent,
		Reasoning:  reasoning,
		Confidence: best.confidence,
	}
}

// Reply builds the canned answer a specialist gives to message.
func Reply(agent domain.AgentType, message string) string {
	switch agent {
	case domain.AgentOrder:
		ref := orderRef.FindString(message)
		if ref == "" {
			return "I can help with your orders. Which **order number** should I look up?"
		}
		return fmt.Sprintf("Order **%s** is on its way.\n\n"+
			"1. Status: **Shipped**\n"+
			"2. Carrier: UPS\n"+
			"3. Estimated delivery: within 2 business days", strings.ToUpper(ref))
	case domain.AgentBilling:
		ref := invoiceRef.FindString(message)
		if ref == "" {
			return "I can help with invoices and refunds. Which **invoice number** is this about?"
		}
		return fmt.Sprintf("Invoice **%s** has been paid in full.\n\n"+
			"1. Amount: **$129.99**\n"+
			"2. Refund status: none requested", strings.ToUpper(ref))
	default:
		return "Thanks for reaching out! I can help with **orders**, **billing** or general account questions. What do you need?"
	}
}
