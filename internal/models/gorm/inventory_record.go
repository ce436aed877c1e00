package gorm

import "time"

// InventoryRecord is one line of the item ledger export. The table holds exactly one
// import at a time; every import replaces it.
type InventoryRecord struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ImportBatchID string `gorm:"column:import_batch_id;type:varchar(36);not null;index" json:"import_batch_id"`

	Date                   *time.Time `gorm:"column:date;type:date" json:"date"`
	LocationCode           *string    `gorm:"column:location_code" json:"location_code"`
	ItemNo                 *string    `gorm:"column:item_no;index" json:"item_no"`
	Quantity               *float64   `gorm:"column:quantity" json:"quantity"`
	UnitOfMeasureCode      *string    `gorm:"column:unit_of_measure_code" json:"unit_of_measure_code"`
	DocumentNo             *string    `gorm:"column:document_no" json:"document_no"`
	WsiVariantCode         *string    `gorm:"column:wsi_variant_code" json:"wsi_variant_code"`
	Dimensions             *string    `gorm:"column:dimensions" json:"dimensions"`
	LotNumber              *string    `gorm:"column:lot_number;index" json:"lot_number"`
	HeatNumber             *string    `gorm:"column:heat_number;index" json:"heat_number"`
	SlabNumber             *string    `gorm:"column:slab_number" json:"slab_number"`
	InternalBin            *string    `gorm:"column:internal_bin" json:"internal_bin"`
	AdditionalNotes        *string    `gorm:"column:additional_notes;type:text" json:"additional_notes"`
	CostAmountActual       *float64   `gorm:"column:cost_amount_actual" json:"cost_amount_actual"`
	Description2           *string    `gorm:"column:description_2" json:"description_2"`
	OriginCode             *string    `gorm:"column:origin_code" json:"origin_code"`
	Picked                 *string    `gorm:"column:picked" json:"picked"`
	CuttingPlanNo          *string    `gorm:"column:cutting_plan_no" json:"cutting_plan_no"`
	ImagePath              *string    `gorm:"column:image_path" json:"image_path"`
	EntryType              *string    `gorm:"column:entry_type" json:"entry_type"`
	DocumentType           *string    `gorm:"column:document_type" json:"document_type"`
	Drawing                *string    `gorm:"column:drawing" json:"drawing"`
	YieldValue             *float64   `gorm:"column:yield_value" json:"yield_value"`
	DocumentLineNo         *int64     `gorm:"column:document_line_no" json:"document_line_no"`
	Revision               *string    `gorm:"column:revision" json:"revision"`
	LaserQuality           *string    `gorm:"column:laser_quality" json:"laser_quality"`
	UnitcostCwt            *float64   `gorm:"column:unitcost_cwt" json:"unitcost_cwt"`
	PieceNo                *string    `gorm:"column:piece_no" json:"piece_no"`
	VariantCode            *string    `gorm:"column:variant_code" json:"variant_code"`
	Description            *string    `gorm:"column:description" json:"description"`
	ReturnReasonCode       *string    `gorm:"column:return_reason_code" json:"return_reason_code"`
	SerialNo               *string    `gorm:"column:serial_no" json:"serial_no"`
	PackageNo              *string    `gorm:"column:package_no" json:"package_no"`
	InvoicedQuantity       *float64   `gorm:"column:invoiced_quantity" json:"invoiced_quantity"`
	InventoryByLocation    *float64   `gorm:"column:inventory_by_location" json:"inventory_by_location"`
	Inventory              *float64   `gorm:"column:inventory" json:"inventory"`
	ExpirationDate         *time.Time `gorm:"column:expiration_date;type:date" json:"expiration_date"`
	RemainingQuantity      *float64   `gorm:"column:remaining_quantity" json:"remaining_quantity"`
	ShippedQtyNotReturned  *float64   `gorm:"column:shipped_qty_not_returned" json:"shipped_qty_not_returned"`
	ReservedQuantity       *float64   `gorm:"column:reserved_quantity" json:"reserved_quantity"`
	QtyPerUnitOfMeasure    *float64   `gorm:"column:qty_per_unit_of_measure" json:"qty_per_unit_of_measure"`
	SalesAmountExpected    *float64   `gorm:"column:sales_amount_expected" json:"sales_amount_expected"`
	SalesAmountActual      *float64   `gorm:"column:sales_amount_actual" json:"sales_amount_actual"`
	CostAmountExpected     *float64   `gorm:"column:cost_amount_expected" json:"cost_amount_expected"`
	CostAmountNonInvtbl    *float64   `gorm:"column:cost_amount_non_invtbl" json:"cost_amount_non_invtbl"`
	ItemDescription        *string    `gorm:"column:item_description" json:"item_description"`
	CostAmountExpectedAcy  *float64   `gorm:"column:cost_amount_expected_acy" json:"cost_amount_expected_acy"`
	CostAmountActualAcy    *float64   `gorm:"column:cost_amount_actual_acy" json:"cost_amount_actual_acy"`
	CompletelyInvoiced     *string    `gorm:"column:completely_invoiced" json:"completely_invoiced"`
	CostAmountNonInvtblAcy *float64   `gorm:"column:cost_amount_non_invtbl_acy" json:"cost_amount_non_invtbl_acy"`
	AssembleToOrder        *string    `gorm:"column:assemble_to_order" json:"assemble_to_order"`
	DropShipment           *string    `gorm:"column:drop_shipment" json:"drop_shipment"`
	OpenFlag               *string    `gorm:"column:open_flag" json:"open_flag"`
	OrderType              *string    `gorm:"column:order_type" json:"order_type"`
	OrderNo                *string    `gorm:"column:order_no" json:"order_no"`
	OrderLineNo            *int64     `gorm:"column:order_line_no" json:"order_line_no"`
	ProdOrderCompLineNo    *int64     `gorm:"column:prod_order_comp_line_no" json:"prod_order_comp_line_no"`
	EntryNo                *int64     `gorm:"column:entry_no;index" json:"entry_no"`
	ProjectNo              *string    `gorm:"column:project_no" json:"project_no"`
	ProjectTaskNo          *string    `gorm:"column:project_task_no" json:"project_task_no"`
	SourceType             *string    `gorm:"column:source_type" json:"source_type"`
	SourceNo               *string    `gorm:"column:source_no" json:"source_no"`
	SourceDescription      *string    `gorm:"column:source_description" json:"source_description"`
	SourceOrderNo          *string    `gorm:"column:source_order_no" json:"source_order_no"`

	Grade                *string    `gorm:"column:grade" json:"grade"`
	Weight               *float64   `gorm:"column:weight" json:"weight"`
	PostingDate          *time.Time `gorm:"column:posting_date;type:date" json:"posting_date"`
	CountryOfMelt        *string    `gorm:"column:country_of_melt" json:"country_of_melt"`
	CountryOfManufacture *string    `gorm:"column:country_of_manufacture" json:"country_of_manufacture"`
	SourceFile           *string    `gorm:"column:source_file" json:"source_file"`

	// RawRowData is the full source row as a JSON object, kept for columns with no field above.
	RawRowData string    `gorm:"column:raw_row_data;type:text" json:"raw_row_data"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (InventoryRecord) TableName() string {
	return "inventory"
}
