package gorm

import "time"

// MtrRecord is one material test report certificate. (heat_number, batch_number) is unique.
type MtrRecord struct {
	ID                uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	HeatNumber        string     `gorm:"column:heat_number;type:varchar(64);not null;uniqueIndex:idx_mtr_heat_batch,priority:1;index:idx_mtr_heat" json:"heat_number"`
	BatchNumber       string     `gorm:"column:batch_number;type:varchar(64);not null;uniqueIndex:idx_mtr_heat_batch,priority:2" json:"batch_number"`
	Grade             *string    `gorm:"column:grade" json:"grade"`
	Manufacturer      *string    `gorm:"column:manufacturer" json:"manufacturer"`
	CertificateNumber *string    `gorm:"column:certificate_number" json:"certificate_number"`
	CertificateDate   *time.Time `gorm:"column:certificate_date;type:date" json:"certificate_date"`

	// Chemical composition
	CElement  *float64 `gorm:"column:c_element" json:"c_element"`
	MnElement *float64 `gorm:"column:mn_element" json:"mn_element"`
	SiElement *float64 `gorm:"column:si_element" json:"si_element"`
	PElement  *float64 `gorm:"column:p_element" json:"p_element"`
	SElement  *float64 `gorm:"column:s_element" json:"s_element"`
	CuElement *float64 `gorm:"column:cu_element" json:"cu_element"`
	NiElement *float64 `gorm:"column:ni_element" json:"ni_element"`
	CrElement *float64 `gorm:"column:cr_element" json:"cr_element"`
	MoElement *float64 `gorm:"column:mo_element" json:"mo_element"`
	NElement  *float64 `gorm:"column:n_element" json:"n_element"`

	// Mechanical properties
	YieldStrength   *float64 `gorm:"column:yield_strength" json:"yield_strength"`
	TensileStrength *float64 `gorm:"column:tensile_strength" json:"tensile_strength"`
	Elongation      *float64 `gorm:"column:elongation" json:"elongation"`
	ReductionArea   *float64 `gorm:"column:reduction_area" json:"reduction_area"`
	Hardness        *float64 `gorm:"column:hardness" json:"hardness"`

	// Charpy impact test
	ImpactTestTemp   *float64 `gorm:"column:impact_test_temp" json:"impact_test_temp"`
	ImpactCouponSize *string  `gorm:"column:impact_coupon_size" json:"impact_coupon_size"`
	ImpactSpecimen1  *float64 `gorm:"column:impact_specimen_1" json:"impact_specimen_1"`
	ImpactSpecimen2  *float64 `gorm:"column:impact_specimen_2" json:"impact_specimen_2"`
	ImpactSpecimen3  *float64 `gorm:"column:impact_specimen_3" json:"impact_specimen_3"`
	ImpactAverage    *float64 `gorm:"column:impact_average" json:"impact_average"`

	CountryOfMelt        *string `gorm:"column:country_of_melt" json:"country_of_melt"`
	CountryOfManufacture *string `gorm:"column:country_of_manufacture" json:"country_of_manufacture"`
	SourceFile           *string `gorm:"column:source_file" json:"source_file"`

	UploadedAt time.Time `gorm:"column:uploaded_at;not null" json:"uploaded_at"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (MtrRecord) TableName() string {
	return "mtr_data"
}
