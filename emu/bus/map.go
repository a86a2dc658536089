package bus

// Physical address windows from spec.md section 6. KSEG0/1 map straight
// to these; KSEG2/USEG go through the TLB first (see emu/vr4300/tlb.go).
const (
	RDRAMBase = 0x0000_0000
	RDRAMSize = 0x03F0_0000 // 0x0000_0000-0x03EF_FFFF

	SPRegsBase = 0x0404_0000
	SPRegsSize = 0x0004_0000

	DPCmdBase = 0x0410_0000
	DPCmdSize = 0x0004_0000

	MIBase = 0x0430_0000
	MISize = 0x0001_0000

	VIBase = 0x0440_0000
	VISize = 0x0004_0000

	AIBase = 0x0450_0000
	AISize = 0x0001_0000

	PIBase = 0x0460_0000
	PISize = 0x0001_0000

	RIBase = 0x0470_0000
	RISize = 0x0001_0000

	SIBase = 0x0480_0000
	SISize = 0x0001_0000

	CartBase = 0x1000_0000
	CartSize = 0x0FC0_0000

	PIFBase = 0x1FC0_0000
	PIFSize = 0x0000_0800
)
