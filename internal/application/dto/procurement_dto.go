package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grupoandino/almacen-api/internal/domain/entity"
)

// POItemRequest renglón solicitado en una orden de compra.
type POItemRequest struct {
	MaterialID string          `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreatePORequest body para crear una orden de compra en borrador.
type CreatePORequest struct {
	SupplierID string          `json:"supplier_id" validate:"required"`
	Items      []POItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      string          `json:"notes,omitempty"`
}

// POResponse salida de una orden de compra.
type POResponse struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	SupplierID string          `json:"supplier_id"`
	Status     string          `json:"status"`
	Items      []entity.POItem `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  string          `json:"created_by"`
	ApprovedBy string          `json:"approved_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FromPO mapea la entidad a su respuesta.
func FromPO(po *entity.PurchaseOrder) POResponse {
	return POResponse{
		ID:         po.ID,
		Number:     po.Number,
		SupplierID: po.SupplierID,
		Status:     po.Status,
		Items:      po.Items,
		Total:      po.Total(),
		Notes:      po.Notes,
		CreatedBy:  po.CreatedBy,
		ApprovedBy: po.ApprovedBy,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}

// GRNItemRequest renglón recibido en una nota de recepción.
type GRNItemRequest struct {
	MaterialID string          `json:"material_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LotCode    string          `json:"lot_code,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// CreateGRNRequest body para registrar una nota de recepción contra una PO.
type CreateGRNRequest struct {
	POID      string           `json:"po_id" validate:"required"`
	Items     []GRNItemRequest `json:"items" validate:"required,min=1,dive"`
	VehicleNo string           `json:"vehicle_no,omitempty"`
}

// GRNResponse salida de una nota de recepción.
type GRNResponse struct {
	ID         string           `json:"id"`
	Number     string           `json:"number"`
	POID       string           `json:"po_id"`
	Status     string           `json:"status"`
	Items      []entity.GRNItem `json:"items"`
	VehicleNo  string           `json:"vehicle_no,omitempty"`
	ReceivedBy string           `json:"received_by"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// FromGRN mapea la entidad a su respuesta.
func FromGRN(g *entity.GRN) GRNResponse {
	return GRNResponse{
		ID:         g.ID,
		Number:     g.Number,
		POID:       g.POID,
		Status:     g.Status,
		Items:      g.Items,
		VehicleNo:  g.VehicleNo,
		ReceivedBy: g.ReceivedBy,
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

// InspectionLineRequest detalle rechazado por material.
type InspectionLineRequest struct {
	MaterialID  string          `json:"material_id" validate:"required"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
	Remarks     string          `json:"remarks,omitempty"`
}

// RecordInspectionRequest body para registrar el resultado de QC de una GRN.
type RecordInspectionRequest struct {
	Result string                  `json:"result" validate:"required,oneof=PASSED FAILED"`
	Notes  string                  `json:"notes,omitempty"`
	Lines  []InspectionLineRequest `json:"lines" validate:"omitempty,dive"`
}

// InvoiceItemRequest renglón a emitir en una factura de almacén.
type InvoiceItemRequest struct {
	MaterialID string          `json:"material_id" validate:"required"`
	LotID      string          `json:"lot_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CreateInvoiceRequest body para crear una factura de almacén en borrador.
type CreateInvoiceRequest struct {
	GRNID    string               `json:"grn_id" validate:"required"`
	IssuedTo string               `json:"issued_to" validate:"required"`
	Items    []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceResponse salida de una factura de almacén.
type InvoiceResponse struct {
	ID        string               `json:"id"`
	Number    string               `json:"number"`
	GRNID     string               `json:"grn_id"`
	IssuedTo  string               `json:"issued_to"`
	Status    string               `json:"status"`
	Items     []entity.InvoiceItem `json:"items"`
	Total     decimal.Decimal      `json:"total"`
	CreatedBy string               `json:"created_by"`
	IssuedAt  *time.Time           `json:"issued_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// FromInvoice mapea la entidad a su respuesta.
func FromInvoice(si *entity.StoreInvoice) InvoiceResponse {
	return InvoiceResponse{
		ID:        si.ID,
		Number:    si.Number,
		GRNID:     si.GRNID,
		IssuedTo:  si.IssuedTo,
		Status:    si.Status,
		Items:     si.Items,
		Total:     si.Total(),
		CreatedBy: si.CreatedBy,
		IssuedAt:  si.IssuedAt,
		CreatedAt: si.CreatedAt,
		UpdatedAt: si.UpdatedAt,
	}
}

// ReturnItemRequest renglón a devolver al proveedor.
type ReturnItemRequest struct {
	MaterialID string          `json:"material_id" validate:"required"`
	LotID      string          `json:"lot_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Remarks    string          `json:"remarks,omitempty"`
}

// CreateReturnRequest body para crear una devolución sobre stock admitido.
type CreateReturnRequest struct {
	GRNID  string              `json:"grn_id" validate:"required"`
	Items  []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
	Reason string              `json:"reason" validate:"required"`
}

// ReturnResponse salida de una devolución a proveedor.
type ReturnResponse struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	GRNID      string              `json:"grn_id"`
	SupplierID string              `json:"supplier_id"`
	Status     string              `json:"status"`
	Items      []entity.ReturnItem `json:"items"`
	Reason     string              `json:"reason,omitempty"`
	CreatedBy  string              `json:"created_by"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// FromReturn mapea la entidad a su respuesta.
func FromReturn(vr *entity.VendorReturn) ReturnResponse {
	return ReturnResponse{
		ID:         vr.ID,
		Number:     vr.Number,
		GRNID:      vr.GRNID,
		SupplierID: vr.SupplierID,
		Status:     vr.Status,
		Items:      vr.Items,
		Reason:     vr.Reason,
		CreatedBy:  vr.CreatedBy,
		CreatedAt:  vr.CreatedAt,
		UpdatedAt:  vr.UpdatedAt,
	}
}
