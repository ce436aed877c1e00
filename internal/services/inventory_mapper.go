package services

import (
	"encoding/json"
	"fmt"
	"time"

	"steel-ledger/mtrledger/internal/coerce"
	"steel-ledger/mtrledger/internal/models/gorm"
	"steel-ledger/mtrledger/internal/tabular"
)

// MapInventoryRow turns one raw ledger row into an inventory record. Canonical fields
// are looked up by normalized header; the full row is kept in RawRowData.
func MapInventoryRow(raw *tabular.Row, sourceFile string) (gorm.InventoryRecord, error) {
	n := raw.Normalized()

	// first non-blank alias wins
	pick := func(aliases ...string) any {
		for _, a := range aliases {
			if v, ok := n[a]; ok && !coerce.IsBlank(v) {
				return v
			}
		}
		return nil
	}
	text := func(aliases ...string) *string { return coerce.Text(pick(aliases...)) }
	num := func(aliases ...string) *float64 { return coerce.Float(pick(aliases...)) }
	integer := func(aliases ...string) *int64 { return coerce.Int(pick(aliases...)) }
	date := func(aliases ...string) *time.Time { return coerce.Date(pick(aliases...)) }
	flag := func(aliases ...string) *string { return coerce.BoolText(pick(aliases...)) }

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return gorm.InventoryRecord{}, fmt.Errorf("failed to encode raw row: %w", err)
	}

	primaryDate := date("date")
	postingDate := date("posting_date")
	if postingDate == nil {
		postingDate = primaryDate
	}

	rec := gorm.InventoryRecord{
		Date:                   primaryDate,
		LocationCode:           text("location_code"),
		ItemNo:                 text("item_no"),
		Quantity:               num("quantity"),
		UnitOfMeasureCode:      text("unit_of_measure_code"),
		DocumentNo:             text("document_no"),
		WsiVariantCode:         text("wsi_variant_code"),
		Dimensions:             text("dimensions"),
		LotNumber:              text("lot_no", "lot_number"),
		HeatNumber:             text("heat_no", "heat_number"),
		SlabNumber:             text("slab_no", "slab_number"),
		InternalBin:            text("internal_bin"),
		AdditionalNotes:        text("additional_notes"),
		CostAmountActual:       num("cost_amount_actual"),
		Description2:           text("description_2"),
		OriginCode:             text("origin_code"),
		Picked:                 flag("picked"),
		CuttingPlanNo:          text("cutting_plan_no"),
		ImagePath:              text("image_path"),
		EntryType:              text("entry_type"),
		DocumentType:           text("document_type"),
		Drawing:                text("drawing"),
		YieldValue:             num("yield"),
		DocumentLineNo:         integer("document_line_no"),
		Revision:               text("revision"),
		LaserQuality:           text("laser_quality"),
		UnitcostCwt:            num("unitcost_cwt"),
		PieceNo:                text("piece_no"),
		VariantCode:            text("variant_code"),
		Description:            text("description"),
		ReturnReasonCode:       text("return_reason_code"),
		SerialNo:               text("serial_no"),
		PackageNo:              text("package_no"),
		InvoicedQuantity:       num("invoiced_quantity"),
		InventoryByLocation:    num("inventory_by_location"),
		Inventory:              num("inventory"),
		ExpirationDate:         date("expiration_date"),
		RemainingQuantity:      num("remaining_quantity"),
		ShippedQtyNotReturned:  num("shipped_qty_not_returned"),
		ReservedQuantity:       num("reserved_quantity"),
		QtyPerUnitOfMeasure:    num("qty_per_unit_of_measure"),
		SalesAmountExpected:    num("sales_amount_expected"),
		SalesAmountActual:      num("sales_amount_actual"),
		CostAmountExpected:     num("cost_amount_expected"),
		CostAmountNonInvtbl:    num("cost_amount_non_invtbl"),
		ItemDescription:        text("item_description"),
		CostAmountExpectedAcy:  num("cost_amount_expected_acy"),
		CostAmountActualAcy:    num("cost_amount_actual_acy"),
		CompletelyInvoiced:     flag("completely_invoiced"),
		CostAmountNonInvtblAcy: num("cost_amount_non_invtbl_acy"),
		AssembleToOrder:        flag("assemble_to_order"),
		DropShipment:           flag("drop_shipment"),
		OpenFlag:               flag("open"),
		OrderType:              text("order_type"),
		OrderNo:                text("order_no"),
		OrderLineNo:            integer("order_line_no"),
		ProdOrderCompLineNo:    integer("prod_order_comp_line_no"),
		EntryNo:                integer("entry_no"),
		ProjectNo:              text("project_no"),
		ProjectTaskNo:          text("project_task_no"),
		SourceType:             text("source_type"),
		SourceNo:               text("source_no"),
		SourceDescription:      text("source_description"),
		SourceOrderNo:          text("source_order_no"),

		Grade:                text("grade"),
		Weight:               num("weight"),
		PostingDate:          postingDate,
		CountryOfMelt:        text("country_of_melt"),
		CountryOfManufacture: text("country_of_manufacture"),

		RawRowData: string(rawJSON),
	}
	if sourceFile != "" {
		rec.SourceFile = &sourceFile
	}

	return rec, nil
}
