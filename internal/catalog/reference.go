package catalog

import "ratecalc/internal/core"

// ReferenceItems returns the rate card shipped with the calculator:
// 11 AutoExotic (composite) and 17 ScrapeYard (flat) items.
func ReferenceItems() []core.Item {
	type cash = core.Denominations
	composite := core.NewCompositeItem
	flat := func(name string, icon core.Icon, cents int64) core.Item {
		return core.NewFlatItem(name, icon, core.Money{Cents: cents})
	}

	return []core.Item{
		composite("Rolex", core.IconWatch, cash{Roll: 2, Loose: 1}),
		composite("Assorted Jewellery", core.IconDiamond, cash{Loose: 1}),
		composite("5CT Chain", core.IconLink, cash{Loose: 2}),
		composite("Diamond Skull", core.IconDiamond, cash{Roll: 1, Loose: 3}),
		composite("Vintage Ring", core.IconGem, cash{Roll: 1}),
		composite("Action Figure", core.IconDiamond, cash{Loose: 6}),
		composite("Boss Chain", core.IconLink, cash{Stack: 1, Roll: 1, Loose: 4}),
		composite("Pair of Yeezys", core.IconDiamond, cash{Loose: 3}),
		composite("Wedding Ring", core.IconGem, cash{Stack: 2}),
		composite("Yellow Diamond", core.IconDiamond, cash{Loose: 5}),
		composite("Blue Diamond", core.IconDiamond, cash{Stack: 1, Loose: 2}),

		flat("Watch", core.IconWatch, 10000),
		flat("Oakley Sunglasses", core.IconDiamond, 5500),
		flat("Gameboy", core.IconGamepad, 6250),
		flat("2ct Gold Chain", core.IconLink, 10000),
		flat("PSP", core.IconGamepad, 10750),
		flat("Pixel 3", core.IconSmartphone, 9750),
		flat("Casio Watch", core.IconWatch, 7500),
		flat("Stolen Laptop", core.IconLaptop, 13750),
		flat("Video Games", core.IconGamepad, 7250),
		flat("Nintendo 64", core.IconGamepad, 8750),
		flat("Old Coin", core.IconDiamond, 4500),
		flat("Deformed Nail", core.IconDiamond, 750),
		flat("Bottle Cap", core.IconDiamond, 450),
		flat("Rusted Tin Can", core.IconDiamond, 450),
		flat("Rusted Watch", core.IconWatch, 5500),
		flat("Pork & Beans", core.IconDiamond, 450),
		flat("Rusted Lighter", core.IconDiamond, 600),
	}
}

// Reference builds the reference catalog. The data is static and always valid.
func Reference() *Catalog {
	c, err := New(ReferenceItems())
	if err != nil {
		panic("catalog: invalid reference data: " + err.Error())
	}
	return c
}
