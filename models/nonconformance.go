package models

// NonConformance is one logged manufacturing non-conformance (table "nc").
// Number is the business key; ID only links corrective actions.
type NonConformance struct {
	ID                 uint    `gorm:"column:id;primaryKey;autoIncrement"        json:"id"`
	Number             int64   `gorm:"column:nro_nc;uniqueIndex"                 json:"number"`
	Date               string  `gorm:"column:fecha;type:text"                    json:"date"`
	MatrixResult       float64 `gorm:"column:resultado_matriz"                   json:"matrixResult"`
	OrderNumber        int64   `gorm:"column:op"                                 json:"orderNumber"`
	QuantityInvolved   float64 `gorm:"column:cant_invol"                         json:"quantityInvolved"`
	ProductCode        string  `gorm:"column:cod_producto;type:text"             json:"productCode"`
	ProductDescription string  `gorm:"column:desc_producto;type:text"            json:"productDescription"`
	Client             string  `gorm:"column:cliente;type:text"                  json:"client"`
	ScrapQuantity      float64 `gorm:"column:cant_scrap"                         json:"scrapQuantity"`
	Cost               float64 `gorm:"column:costo"                              json:"cost"`
	RecoveredQuantity  float64 `gorm:"column:cant_recuperada"                    json:"recoveredQuantity"`
	Observations       string  `gorm:"column:observaciones;type:text"            json:"observations"`
	Failure            string  `gorm:"column:falla;type:text"                    json:"failure"`
	RootCause          string  `gorm:"column:ishikawa;type:text"                 json:"rootCause"`

	Actions []CorrectiveAction `gorm:"foreignKey:NCID;constraint:OnDelete:CASCADE" json:"actions,omitempty"`
}

// TableName keeps the table name used by existing databases.
func (NonConformance) TableName() string {
	return "nc"
}

// DateLayout is the layout of NonConformance.Date.
const DateLayout = "2006-01-02 15:04:05"
