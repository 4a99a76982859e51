package server

import "github.com/splitsies/splitsies/internal/models"

// Wire representations of the domain models. Kept separate so the JSON
// contract can evolve without touching the models package.

type itemDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Quantity       int      `json:"quantity"`
	AssignedTo     []string `json:"assignedTo"`
	SplitType      string   `json:"splitType"`
	Confidence     float64  `json:"confidence,omitempty"`
	ManuallyEdited bool     `json:"manuallyEdited"`
}

type participantDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type sessionDTO struct {
	ID           string           `json:"id"`
	CreatedAt    int64            `json:"createdAt"`
	MerchantName string           `json:"merchantName,omitempty"`
	Items        []itemDTO        `json:"items"`
	Participants []participantDTO `json:"participants"`
	Subtotal     float64          `json:"subtotal"`
	Tax          float64          `json:"tax"`
	Tip          float64          `json:"tip"`
	Total        float64          `json:"total"`
	Currency     string           `json:"currency"`
	Status       string           `json:"status"`
}

type receiptItemDTO struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type receiptDTO struct {
	MerchantName string           `json:"merchantName"`
	Items        []receiptItemDTO `json:"items"`
	Subtotal     float64          `json:"subtotal"`
	Tax          float64          `json:"tax"`
	Tip          float64          `json:"tip"`
	Total        float64          `json:"total"`
	Currency     string           `json:"currency"`
	Confidence   float64          `json:"confidence"`
	Usable       bool             `json:"usable"`
}

type summaryDTO struct {
	ParticipantID   string    `json:"participantId"`
	ParticipantName string    `json:"participantName"`
	ItemsTotal      float64   `json:"itemsTotal"`
	TaxShare        float64   `json:"taxShare"`
	TipShare        float64   `json:"tipShare"`
	GrandTotal      float64   `json:"grandTotal"`
	Items           []itemDTO `json:"items"`
}

func toItemDTO(i models.BillItem) itemDTO {
	assigned := i.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return itemDTO{
		ID:             i.ID,
		Name:           i.Name,
		Price:          i.Price,
		Quantity:       i.Quantity,
		AssignedTo:     assigned,
		SplitType:      string(i.SplitType),
		Confidence:     i.Confidence,
		ManuallyEdited: i.ManuallyEdited,
	}
}

func toSessionDTO(s *models.BillSession) sessionDTO {
	items := make([]itemDTO, 0, len(s.Items))
	for _, i := range s.Items {
		items = append(items, toItemDTO(i))
	}
	participants := make([]participantDTO, 0, len(s.Participants))
	for _, p := range s.Participants {
		participants = append(participants, participantDTO{ID: p.ID, Name: p.Name, Color: p.Color})
	}
	return sessionDTO{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		MerchantName: s.MerchantName,
		Items:        items,
		Participants: participants,
		Subtotal:     s.Subtotal,
		Tax:          s.Tax,
		Tip:          s.Tip,
		Total:        s.Total,
		Currency:     s.Currency,
		Status:       string(s.Status),
	}
}

func toReceiptDTO(r models.Receipt) receiptDTO {
	items := make([]receiptItemDTO, 0, len(r.Items))
	for _, i := range r.Items {
		items = append(items, receiptItemDTO{Name: i.Name, Price: i.Price, Quantity: i.Quantity})
	}
	return receiptDTO{
		MerchantName: r.MerchantName,
		Items:        items,
		Subtotal:     r.Subtotal,
		Tax:          r.Tax,
		Tip:          r.Tip,
		Total:        r.Total,
		Currency:     r.Currency,
		Confidence:   r.Confidence,
		Usable:       r.Usable(),
	}
}

func toSummaryDTOs(summaries []models.PersonSummary) []summaryDTO {
	out := make([]summaryDTO, 0, len(summaries))
	for _, s := range summaries {
		items := make([]itemDTO, 0, len(s.Items))
		for _, i := range s.Items {
			items = append(items, toItemDTO(i))
		}
		out = append(out, summaryDTO{
			ParticipantID:   s.ParticipantID,
			ParticipantName: s.ParticipantName,
			ItemsTotal:      s.ItemsTotal,
			TaxShare:        s.TaxShare,
			TipShare:        s.TipShare,
			GrandTotal:      s.GrandTotal,
			Items:           items,
		})
	}
	return out
}
