package chunkstage

// StageCall is one staging transaction: an entry function of the staging
// contract and its arguments. StageCall is immutable.
type StageCall struct {
	function FunctionID
	entry    Entry
	args     []Arg
}

// Function returns the fully qualified entry function id.
func (c *StageCall) Function() FunctionID {
	return c.function
}

// Entry returns which staging entry function the call targets.
func (c *StageCall) Entry() Entry {
	return c.entry
}

// IsTerminal reports whether this call publishes or upgrades the package.
func (c *StageCall) IsTerminal() bool {
	return c.entry.IsTerminal()
}

// TypeArgs returns the type arguments, which are always empty.
func (c *StageCall) TypeArgs() []string {
	return []string{}
}

// Args returns the call arguments in order.
func (c *StageCall) Args() []Arg {
	return c.args
}

// Metadata returns the metadata slice carried by this call (possibly empty).
func (c *StageCall) Metadata() []byte {
	return c.args[0].(*HexArg).Bytes()
}

// Indices returns the original indices of the modules in this call.
func (c *StageCall) Indices() []uint16 {
	return c.args[1].(*U16ListArg).Values()
}

// Code returns the module bytecode in this call, parallel to Indices.
func (c *StageCall) Code() [][]byte {
	return c.args[2].(*HexListArg).Items()
}

// ObjectAddress returns the upgrade target, if the call carries one.
func (c *StageCall) ObjectAddress() (Address, bool) {
	if len(c.args) < 4 {
		return Address{}, false
	}
	return c.args[3].(*AddressArg).Address(), true
}

// Size returns the size of the call's payload as measured by sizer.
func (c *StageCall) Size(sizer Sizer) int {
	n := sizer(c.Metadata())
	for _, code := range c.Code() {
		n += sizer(code)
	}
	return n
}
