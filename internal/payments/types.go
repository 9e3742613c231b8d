package payments

// Gateway protocol constants. The gateway rejects requests whose
// fixed fields deviate from these values.
const (
	Version     = "2.1.0"
	CommandPay  = "pay"
	CurrCode    = "VND"
	Locale      = "vn"
	OrderType   = "other"
	SuccessCode = "00"

	// Timestamps on the wire are local to the gateway's region.
	dateLayout = "20060102150405"
	timezone   = "Asia/Ho_Chi_Minh"
)

// Wire field names.
const (
	FieldVersion           = "vnp_Version"
	FieldCommand           = "vnp_Command"
	FieldTmnCode           = "vnp_TmnCode"
	FieldLocale            = "vnp_Locale"
	FieldCurrCode          = "vnp_CurrCode"
	FieldTxnRef            = "vnp_TxnRef"
	FieldOrderInfo         = "vnp_OrderInfo"
	FieldOrderType         = "vnp_OrderType"
	FieldAmount            = "vnp_Amount"
	FieldReturnURL         = "vnp_ReturnUrl"
	FieldIPAddr            = "vnp_IpAddr"
	FieldCreateDate        = "vnp_CreateDate"
	FieldResponseCode      = "vnp_ResponseCode"
	FieldTransactionStatus = "vnp_TransactionStatus"
)

// Config carries the merchant credentials and redirect targets for
// the payment gateway integration.
type Config struct {
	BaseURL     string
	TmnCode     string
	HashSecret  string
	ReturnURL   string
	SuccessPage string
	FailPage    string
}
