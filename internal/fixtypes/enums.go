package fixtypes

// YesOrNo is the FIX Boolean-as-char convention: Y/N.
type YesOrNo bool

func ParseYesOrNo(s string) (YesOrNo, error) {
	switch s {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	default:
		return false, unknownEnum("YesOrNo", s)
	}
}

func (y YesOrNo) String() string {
	if y {
		return "Y"
	}
	return "N"
}

// MsgType identifies the kind of a FIX message (tag 35).
type MsgType string

const (
	MsgTypeHeartbeat        MsgType = "0"
	MsgTypeTestRequest      MsgType = "1"
	MsgTypeResendRequest    MsgType = "2"
	MsgTypeReject           MsgType = "3"
	MsgTypeSequenceReset    MsgType = "4"
	MsgTypeLogout           MsgType = "5"
	MsgTypeLogon            MsgType = "A"
	MsgTypeNewOrderSingle   MsgType = "D"
	MsgTypeExecutionReport  MsgType = "8"
	MsgTypeOrderCancelReq   MsgType = "F"
	MsgTypeOrderCancelReply MsgType = "9"
	MsgTypeMarketDataReq    MsgType = "V"
	MsgTypeMarketDataSnap   MsgType = "W"
	MsgTypeMarketDataIncr   MsgType = "X"
)

// administrative reports whether m is one of the session-layer message
// types the engine absorbs rather than delivering to the application.
func (m MsgType) Administrative() bool {
	switch m {
	case MsgTypeHeartbeat, MsgTypeTestRequest, MsgTypeResendRequest,
		MsgTypeReject, MsgTypeSequenceReset, MsgTypeLogout, MsgTypeLogon:
		return true
	default:
		return false
	}
}

// Side is tag 54.
type Side string

const (
	SideBuy             Side = "1"
	SideSell            Side = "2"
	SideBuyMinus        Side = "3"
	SideSellPlus        Side = "4"
	SideSellShort       Side = "5"
	SideSellShortExempt Side = "6"
	SideUndisclosed     Side = "7"
	SideCross           Side = "8"
	SideCrossShort      Side = "9"
)

func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy, SideSell, SideBuyMinus, SideSellPlus, SideSellShort,
		SideSellShortExempt, SideUndisclosed, SideCross, SideCrossShort:
		return Side(s), nil
	default:
		return "", unknownEnum("Side", s)
	}
}

// OrdType is tag 40.
type OrdType string

const (
	OrdTypeMarket           OrdType = "1"
	OrdTypeLimit            OrdType = "2"
	OrdTypeStop             OrdType = "3"
	OrdTypeStopLimit        OrdType = "4"
	OrdTypeMarketOnClose    OrdType = "5"
	OrdTypeWithOrWithout    OrdType = "6"
	OrdTypeLimitOrBetter    OrdType = "7"
	OrdTypeLimitWithOrWith  OrdType = "8"
	OrdTypeOnBasis          OrdType = "9"
	OrdTypePrevQuoted       OrdType = "D"
	OrdTypePrevIndicated    OrdType = "E"
	OrdTypeForex            OrdType = "G"
	OrdTypeFuture           OrdType = "I"
	OrdTypePegged           OrdType = "P"
)

func ParseOrdType(s string) (OrdType, error) {
	switch OrdType(s) {
	case OrdTypeMarket, OrdTypeLimit, OrdTypeStop, OrdTypeStopLimit,
		OrdTypeMarketOnClose, OrdTypeWithOrWithout, OrdTypeLimitOrBetter,
		OrdTypeLimitWithOrWith, OrdTypeOnBasis, OrdTypePrevQuoted,
		OrdTypePrevIndicated, OrdTypeForex, OrdTypeFuture, OrdTypePegged:
		return OrdType(s), nil
	default:
		return "", unknownEnum("OrdType", s)
	}
}

// OrdStatus is tag 39, implemented to full FIX 4.4 coverage.
type OrdStatus string

const (
	OrdStatusNew                OrdStatus = "0"
	OrdStatusPartiallyFilled    OrdStatus = "1"
	OrdStatusFilled             OrdStatus = "2"
	OrdStatusDoneForDay         OrdStatus = "3"
	OrdStatusCanceled           OrdStatus = "4"
	OrdStatusReplaced           OrdStatus = "5"
	OrdStatusPendingCancel      OrdStatus = "6"
	OrdStatusStopped            OrdStatus = "7"
	OrdStatusRejected           OrdStatus = "8"
	OrdStatusSuspended          OrdStatus = "9"
	OrdStatusPendingNew         OrdStatus = "A"
	OrdStatusCalculated         OrdStatus = "B"
	OrdStatusExpired            OrdStatus = "C"
	OrdStatusAcceptedForBidding OrdStatus = "D"
	OrdStatusPendingReplace     OrdStatus = "E"
)

func ParseOrdStatus(s string) (OrdStatus, error) {
	switch OrdStatus(s) {
	case OrdStatusNew, OrdStatusPartiallyFilled, OrdStatusFilled, OrdStatusDoneForDay,
		OrdStatusCanceled, OrdStatusReplaced, OrdStatusPendingCancel, OrdStatusStopped,
		OrdStatusRejected, OrdStatusSuspended, OrdStatusPendingNew, OrdStatusCalculated,
		OrdStatusExpired, OrdStatusAcceptedForBidding, OrdStatusPendingReplace:
		return OrdStatus(s), nil
	default:
		return "", unknownEnum("OrdStatus", s)
	}
}

// ExecType is tag 150, implemented to full FIX 4.4 coverage.
type ExecType string

const (
	ExecTypeNew                ExecType = "0"
	ExecTypePartialFill        ExecType = "1"
	ExecTypeFill               ExecType = "2"
	ExecTypeDoneForDay         ExecType = "3"
	ExecTypeCanceled           ExecType = "4"
	ExecTypeReplaced           ExecType = "5"
	ExecTypePendingCancel      ExecType = "6"
	ExecTypeStopped            ExecType = "7"
	ExecTypeRejected           ExecType = "8"
	ExecTypeSuspended          ExecType = "9"
	ExecTypePendingNew         ExecType = "A"
	ExecTypeCalculated         ExecType = "B"
	ExecTypeExpired            ExecType = "C"
	ExecTypeRestated           ExecType = "D"
	ExecTypePendingReplace     ExecType = "E"
	ExecTypeTrade              ExecType = "F"
	ExecTypeTradeCorrect       ExecType = "G"
	ExecTypeTradeCancel        ExecType = "H"
	ExecTypeOrderStatus        ExecType = "I"
)

func ParseExecType(s string) (ExecType, error) {
	switch ExecType(s) {
	case ExecTypeNew, ExecTypePartialFill, ExecTypeFill, ExecTypeDoneForDay,
		ExecTypeCanceled, ExecTypeReplaced, ExecTypePendingCancel, ExecTypeStopped,
		ExecTypeRejected, ExecTypeSuspended, ExecTypePendingNew, ExecTypeCalculated,
		ExecTypeExpired, ExecTypeRestated, ExecTypePendingReplace, ExecTypeTrade,
		ExecTypeTradeCorrect, ExecTypeTradeCancel, ExecTypeOrderStatus:
		return ExecType(s), nil
	default:
		return "", unknownEnum("ExecType", s)
	}
}

// TimeInForce is tag 59.
type TimeInForce string

const (
	TimeInForceDay         TimeInForce = "0"
	TimeInForceGTC         TimeInForce = "1"
	TimeInForceAtTheOpen   TimeInForce = "2"
	TimeInForceIOC         TimeInForce = "3"
	TimeInForceFOK         TimeInForce = "4"
	TimeInForceGTX         TimeInForce = "5"
	TimeInForceGTD         TimeInForce = "6"
	TimeInForceAtTheClose  TimeInForce = "7"
)

func ParseTimeInForce(s string) (TimeInForce, error) {
	switch TimeInForce(s) {
	case TimeInForceDay, TimeInForceGTC, TimeInForceAtTheOpen, TimeInForceIOC,
		TimeInForceFOK, TimeInForceGTX, TimeInForceGTD, TimeInForceAtTheClose:
		return TimeInForce(s), nil
	default:
		return "", unknownEnum("TimeInForce", s)
	}
}

// HandlInst is tag 21.
type HandlInst string

const (
	HandlInstAutoPrivate HandlInst = "1"
	HandlInstAutoPublic  HandlInst = "2"
	HandlInstManual      HandlInst = "3"
)

func ParseHandlInst(s string) (HandlInst, error) {
	switch HandlInst(s) {
	case HandlInstAutoPrivate, HandlInstAutoPublic, HandlInstManual:
		return HandlInst(s), nil
	default:
		return "", unknownEnum("HandlInst", s)
	}
}

// EncryptMethod is tag 98.
type EncryptMethod string

const (
	EncryptMethodNone   EncryptMethod = "0"
	EncryptMethodPKCS   EncryptMethod = "1"
	EncryptMethodDES    EncryptMethod = "2"
	EncryptMethodPKCSDES EncryptMethod = "3"
	EncryptMethodPGPDES EncryptMethod = "4"
)

func ParseEncryptMethod(s string) (EncryptMethod, error) {
	switch EncryptMethod(s) {
	case EncryptMethodNone, EncryptMethodPKCS, EncryptMethodDES, EncryptMethodPKCSDES, EncryptMethodPGPDES:
		return EncryptMethod(s), nil
	default:
		return "", unknownEnum("EncryptMethod", s)
	}
}

// SessionRejectReason is tag 373.
type SessionRejectReason string

const (
	RejectInvalidTagNumber       SessionRejectReason = "0"
	RejectRequiredTagMissing     SessionRejectReason = "1"
	RejectTagNotDefinedForMsg    SessionRejectReason = "2"
	RejectUndefinedTag           SessionRejectReason = "3"
	RejectTagWithoutValue        SessionRejectReason = "4"
	RejectValueIncorrect         SessionRejectReason = "5"
	RejectIncorrectDataFormat    SessionRejectReason = "6"
	RejectDecryptionProblem      SessionRejectReason = "7"
	RejectSignatureProblem       SessionRejectReason = "8"
	RejectCompIDProblem          SessionRejectReason = "9"
	RejectSendingTimeAccuracy    SessionRejectReason = "10"
	RejectInvalidMsgType         SessionRejectReason = "11"
	RejectOther                  SessionRejectReason = "99"
)
