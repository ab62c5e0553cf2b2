package fixfield

import "github.com/ndrandal/fixengine/internal/fixtypes"

// Core tag numbers used throughout fixcodec and fixsession. These mirror
// the FIX 4.4 data dictionary for the subset of tags the engine and the
// shipped message types need; venue adapters register additional tags
// into the same Registry without touching this table.
const (
	TagBeginString         = 8
	TagBodyLength          = 9
	TagMsgType             = 35
	TagCheckSum            = 10
	TagMsgSeqNum           = 34
	TagSenderCompID        = 49
	TagTargetCompID        = 56
	TagSendingTime         = 52
	TagOrigSendingTime     = 122
	TagPossDupFlag         = 43
	TagHeartBtInt          = 108
	TagEncryptMethod       = 98
	TagTestReqID           = 112
	TagResetSeqNumFlag     = 141
	TagBeginSeqNo          = 7
	TagEndSeqNo            = 16
	TagNewSeqNo            = 36
	TagGapFillFlag         = 123
	TagRefSeqNum           = 45
	TagRefTagID            = 371
	TagRefMsgType          = 372
	TagSessionRejectReason = 373
	TagText                = 58
	TagClOrdID             = 11
	TagOrigClOrdID         = 41
	TagOrderID             = 37
	TagSymbol              = 55
	TagSide                = 54
	TagOrderQty            = 38
	TagOrdType             = 40
	TagPrice               = 44
	TagTimeInForce         = 59
	TagTransactTime        = 60
	TagExecID              = 17
	TagExecType            = 150
	TagOrdStatus           = 39
	TagCumQty              = 14
	TagAvgPx               = 6
	TagLeavesQty           = 151
	TagHandlInst           = 21
	TagAccount             = 1
	TagNoRelatedSym        = 146
	TagMDReqID             = 262
	TagSubscriptionReqType = 263
	TagMarketDepth         = 264
	TagNoMDEntryTypes      = 267
	TagMDEntryType         = 269
	TagUsername            = 553
	TagPassword            = 554
	TagRawDataLength       = 95
	TagRawData             = 96
)

// BuildCoreRegistry returns a fresh, unsealed registry populated with the
// core's static field table. The caller (typically the session
// configuration step) registers any venue-specific fields and calls
// Seal() before the first session connects.
func BuildCoreRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(StringDescriptor(TagBeginString, "BeginString"))
	r.MustRegister(IntDescriptor(TagBodyLength, "BodyLength"))
	r.MustRegister(EnumDescriptor(TagMsgType, "MsgType", func(s string) (fixtypes.MsgType, error) {
		return fixtypes.MsgType(s), nil
	}))
	r.MustRegister(StringDescriptor(TagCheckSum, "CheckSum"))
	r.MustRegister(IntDescriptor(TagMsgSeqNum, "MsgSeqNum"))
	r.MustRegister(StringDescriptor(TagSenderCompID, "SenderCompID"))
	r.MustRegister(StringDescriptor(TagTargetCompID, "TargetCompID"))
	r.MustRegister(UTCTimestampDescriptor(TagSendingTime, "SendingTime"))
	r.MustRegister(UTCTimestampDescriptor(TagOrigSendingTime, "OrigSendingTime"))
	r.MustRegister(BoolDescriptor(TagPossDupFlag, "PossDupFlag"))
	r.MustRegister(IntDescriptor(TagHeartBtInt, "HeartBtInt"))
	r.MustRegister(EnumDescriptor(TagEncryptMethod, "EncryptMethod", fixtypes.ParseEncryptMethod))
	r.MustRegister(StringDescriptor(TagTestReqID, "TestReqID"))
	r.MustRegister(BoolDescriptor(TagResetSeqNumFlag, "ResetSeqNumFlag"))
	r.MustRegister(IntDescriptor(TagBeginSeqNo, "BeginSeqNo"))
	r.MustRegister(IntDescriptor(TagEndSeqNo, "EndSeqNo"))
	r.MustRegister(IntDescriptor(TagNewSeqNo, "NewSeqNo"))
	r.MustRegister(BoolDescriptor(TagGapFillFlag, "GapFillFlag"))
	r.MustRegister(IntDescriptor(TagRefSeqNum, "RefSeqNum"))
	r.MustRegister(IntDescriptor(TagRefTagID, "RefTagID"))
	r.MustRegister(EnumDescriptor(TagRefMsgType, "RefMsgType", func(s string) (fixtypes.MsgType, error) {
		return fixtypes.MsgType(s), nil
	}))
	r.MustRegister(EnumDescriptor(TagSessionRejectReason, "SessionRejectReason", func(s string) (fixtypes.SessionRejectReason, error) {
		return fixtypes.SessionRejectReason(s), nil
	}))
	r.MustRegister(StringDescriptor(TagText, "Text"))
	r.MustRegister(StringDescriptor(TagClOrdID, "ClOrdID"))
	r.MustRegister(StringDescriptor(TagOrigClOrdID, "OrigClOrdID"))
	r.MustRegister(StringDescriptor(TagOrderID, "OrderID"))
	r.MustRegister(StringDescriptor(TagSymbol, "Symbol"))
	r.MustRegister(EnumDescriptor(TagSide, "Side", fixtypes.ParseSide))
	r.MustRegister(FloatDescriptor(TagOrderQty, "OrderQty"))
	r.MustRegister(EnumDescriptor(TagOrdType, "OrdType", fixtypes.ParseOrdType))
	r.MustRegister(FloatDescriptor(TagPrice, "Price"))
	r.MustRegister(EnumDescriptor(TagTimeInForce, "TimeInForce", fixtypes.ParseTimeInForce))
	r.MustRegister(UTCTimestampDescriptor(TagTransactTime, "TransactTime"))
	r.MustRegister(StringDescriptor(TagExecID, "ExecID"))
	r.MustRegister(EnumDescriptor(TagExecType, "ExecType", fixtypes.ParseExecType))
	r.MustRegister(EnumDescriptor(TagOrdStatus, "OrdStatus", fixtypes.ParseOrdStatus))
	r.MustRegister(FloatDescriptor(TagCumQty, "CumQty"))
	r.MustRegister(FloatDescriptor(TagAvgPx, "AvgPx"))
	r.MustRegister(FloatDescriptor(TagLeavesQty, "LeavesQty"))
	r.MustRegister(EnumDescriptor(TagHandlInst, "HandlInst", fixtypes.ParseHandlInst))
	r.MustRegister(StringDescriptor(TagAccount, "Account"))
	r.MustRegister(IntDescriptor(TagNoRelatedSym, "NoRelatedSym"))
	r.MustRegister(StringDescriptor(TagMDReqID, "MDReqID"))
	r.MustRegister(StringDescriptor(TagSubscriptionReqType, "SubscriptionRequestType"))
	r.MustRegister(IntDescriptor(TagMarketDepth, "MarketDepth"))
	r.MustRegister(IntDescriptor(TagNoMDEntryTypes, "NoMDEntryTypes"))
	r.MustRegister(StringDescriptor(TagMDEntryType, "MDEntryType"))
	r.MustRegister(StringDescriptor(TagUsername, "Username"))
	r.MustRegister(StringDescriptor(TagPassword, "Password"))
	r.MustRegister(IntDescriptor(TagRawDataLength, "RawDataLength"))
	r.MustRegister(StringDescriptor(TagRawData, "RawData"))

	return r
}
