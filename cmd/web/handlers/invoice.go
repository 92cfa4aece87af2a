package handlers

import (
	"context"
	"log"
	"net/http"

	"invoicer/cmd/web/validator"
	"invoicer/internal/invoice"
	"invoicer/internal/product"
	"invoicer/kit/db"
	"invoicer/kit/payment_gateway"
)

type InvoiceServiceContract interface {
	Create(ctx context.Context, req invoice.CreateRequest) (*invoice.Invoice, error)
	ListAll(ctx context.Context) ([]invoice.Invoice, error)
}

type ProductServiceContract interface {
	Get(ctx context.Context, productID string) (*product.Product, error)
}

type Invoice struct {
	json     *validator.JSON
	invoices InvoiceServiceContract
	products ProductServiceContract
}

func NewInvoice(jsonV *validator.JSON, invoiceSvc InvoiceServiceContract, productSvc ProductServiceContract) *Invoice {
	return &Invoice{json: jsonV, invoices: invoiceSvc, products: productSvc}
}

type createInvoiceReq struct {
	ProductID   string `json:"product_id"`
	Amount      int64  `json:"amount"`
	PayerEmail  string `json:"payer_email"`
	Description string `json:"description"`
}

func (h *Invoice) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceReq
	if err := h.json.Decode(w, r, &req); err != nil {
		log.Printf("layer=handler component=invoice method=Create err=%v", err)
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.ProductID != "" {
		p, err := h.products.Get(r.Context(), req.ProductID)
		if err != nil {
			log.Printf("layer=handler component=invoice method=Create product_id=%s err=%v", req.ProductID, err)
			if db.IsNotFound(err) {
				respondError(w, http.StatusNotFound, "Product not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if req.Amount == 0 {
			req.Amount = p.Price
		}
		if req.Description == "" {
			req.Description = "Payment for " + p.Name
		}
	}

	domainReq := invoice.ToCreateRequest(req.ProductID, req.Amount, req.PayerEmail, req.Description)
	inv, err := h.invoices.Create(r.Context(), domainReq)
	if err != nil {
		log.Printf("layer=handler component=invoice method=Create product_id=%s err=%v", req.ProductID, err)
		if db.IsInvalid(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		msg := err.Error()
		if gwErr, ok := payment_gateway.AsError(err); ok {
			msg = gwErr.Message
		}
		respondError(w, http.StatusInternalServerError, "Failed to create invoice: "+msg)
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"status":      "pending",
		"invoice_url": inv.InvoiceURL,
		"external_id": inv.ExternalID,
		"updated_at":  inv.UpdatedAt,
		"created_at":  inv.CreatedAt,
	})
}

func (h *Invoice) List(w http.ResponseWriter, r *http.Request) {
	invs, err := h.invoices.ListAll(r.Context())
	if err != nil {
		log.Printf("layer=handler component=invoice method=List err=%v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if invs == nil {
		invs = []invoice.Invoice{}
	}
	respond(w, http.StatusOK, invs)
}
