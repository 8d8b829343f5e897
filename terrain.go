package brogue

// TerrainFlags describes the properties of tiles as a bitset. The flags of a
// cell are the union of the flags of its layers.
type TerrainFlags uint64

// Any reports whether any of the flags is in the set.
func (f TerrainFlags) Any(of TerrainFlags) bool {
	return f&of != 0
}

const (
	TObstructsPassability TerrainFlags = 1 << iota
	TObstructsVision
	TObstructsGas
	TObstructsDiagonal // walls: no cutting corners
	TIsFire
	TCausesDamage // caustic
	TCausesPoison
	TCausesParalysis
	TCausesConfusion
	TCausesNausea
	TCausesExplosiveDamage
	TIsFlammable
	TSpontaneouslyIgnites // brimstone
	TEntangles
	TAutoDescent
	TLavaInstaDeath
	TIsDeepWater
	TAllowsSubmerging
	TIsSecret
	TIsStairs
	TIsDFTrap // pressure plates
	TExtinguishesFire
	TStandInTile // tall grass and the like
)

// Composite terrain flags.
const (
	THarmfulTerrain = TCausesPoison | TIsFire | TCausesDamage | TCausesParalysis |
		TCausesConfusion | TCausesExplosiveDamage
	TPathingBlocker = TObstructsPassability | TAutoDescent | TIsDFTrap |
		TLavaInstaDeath | TIsDeepWater | TSpontaneouslyIgnites
	TRespirationImmunities = TCausesDamage | TCausesConfusion | TCausesParalysis |
		TCausesNausea
	TObstructsEverything = TObstructsPassability | TObstructsVision | TObstructsGas |
		TObstructsDiagonal
)

// Layer identifies one of the stacked terrain layers of a cell.
type Layer int

const (
	LayerDungeon Layer = iota
	LayerLiquid
	LayerSurface
	LayerGas
	NLayers
)

// TileType represents a kind of tile. The zero value is the empty tile.
type TileType int

const (
	Nothing TileType = iota
	Granite
	Wall
	Floor
	Door
	SecretDoor
	UpStairs
	DownStairs
	PressurePlate
	DeepWater
	ShallowWater
	Lava
	Chasm
	Brimstone
	Grass
	Spiderweb
	Lichen
	Fire
	Ash
	Forcefield
	Rubble
	CausticGas
	ConfusionGas
	ParalyticGas
	MethaneGas
	Explosion
	Steam
	NTileTypes
)

// tileSpec describes a tile type.
type tileSpec struct {
	Name     string
	Rune     rune
	Layer    Layer
	Flags    TerrainFlags
	Lifetime int      // turns before vanishing, 0 for permanent
	BurnsTo  TileType // replacement when burnt, for flammable tiles
}

var tileCatalog = [NTileTypes]tileSpec{
	Nothing:       {Name: "nothing", Rune: ' ', Layer: LayerSurface},
	Granite:       {Name: "granite", Rune: '#', Layer: LayerDungeon, Flags: TObstructsEverything},
	Wall:          {Name: "wall", Rune: '#', Layer: LayerDungeon, Flags: TObstructsEverything},
	Floor:         {Name: "floor", Rune: '.', Layer: LayerDungeon},
	Door:          {Name: "door", Rune: '+', Layer: LayerDungeon, Flags: TObstructsVision | TObstructsGas | TIsFlammable, BurnsTo: Fire},
	SecretDoor:    {Name: "stone wall", Rune: '#', Layer: LayerDungeon, Flags: TObstructsEverything | TIsSecret},
	UpStairs:      {Name: "upward staircase", Rune: '<', Layer: LayerDungeon, Flags: TIsStairs | TObstructsGas},
	DownStairs:    {Name: "downward staircase", Rune: '>', Layer: LayerDungeon, Flags: TIsStairs | TObstructsGas},
	PressurePlate: {Name: "pressure plate", Rune: '^', Layer: LayerDungeon, Flags: TIsDFTrap},
	DeepWater:     {Name: "murky waters", Rune: '~', Layer: LayerLiquid, Flags: TIsDeepWater | TAllowsSubmerging | TExtinguishesFire},
	ShallowWater:  {Name: "shallow water", Rune: '-', Layer: LayerLiquid, Flags: TAllowsSubmerging | TExtinguishesFire},
	Lava:          {Name: "lava", Rune: '=', Layer: LayerLiquid, Flags: TLavaInstaDeath | TAllowsSubmerging},
	Chasm:         {Name: "chasm", Rune: ':', Layer: LayerLiquid, Flags: TAutoDescent},
	Brimstone:     {Name: "brimstone", Rune: '%', Layer: LayerLiquid, Flags: TSpontaneouslyIgnites, BurnsTo: Fire},
	Grass:         {Name: "grass", Rune: '"', Layer: LayerSurface, Flags: TIsFlammable, BurnsTo: Fire},
	Spiderweb:     {Name: "spiderweb", Rune: '*', Layer: LayerSurface, Flags: TEntangles | TIsFlammable | TStandInTile, BurnsTo: Nothing},
	Lichen:        {Name: "lichen", Rune: '&', Layer: LayerSurface, Flags: TCausesPoison | TIsFlammable, BurnsTo: Fire},
	Fire:          {Name: "flames", Rune: '^', Layer: LayerSurface, Flags: TIsFire, Lifetime: 3, BurnsTo: Ash},
	Ash:           {Name: "ashes", Rune: ',', Layer: LayerSurface},
	Forcefield:    {Name: "green crystal", Rune: '#', Layer: LayerSurface, Flags: TObstructsPassability | TObstructsGas | TObstructsDiagonal, Lifetime: 20},
	Rubble:        {Name: "rubble", Rune: ',', Layer: LayerSurface},
	CausticGas:    {Name: "caustic gas", Rune: ' ', Layer: LayerGas, Flags: TCausesPoison, Lifetime: 15},
	ConfusionGas:  {Name: "confusion gas", Rune: ' ', Layer: LayerGas, Flags: TCausesConfusion, Lifetime: 10},
	ParalyticGas:  {Name: "pink gas", Rune: ' ', Layer: LayerGas, Flags: TCausesParalysis, Lifetime: 10},
	MethaneGas:    {Name: "methane", Rune: ' ', Layer: LayerGas, Flags: TIsFlammable, BurnsTo: Explosion},
	Explosion:     {Name: "explosion", Rune: '*', Layer: LayerSurface, Flags: TIsFire | TCausesExplosiveDamage, Lifetime: 1, BurnsTo: Ash},
	Steam:         {Name: "scalding steam", Rune: ' ', Layer: LayerGas, Flags: TCausesDamage, Lifetime: 5},
}

// Flags returns the terrain flags of the tile type.
func (t TileType) Flags() TerrainFlags {
	return tileCatalog[t].Flags
}

// Layer returns the layer the tile type belongs to.
func (t TileType) Layer() Layer {
	return tileCatalog[t].Layer
}

func (t TileType) String() string {
	return tileCatalog[t].Name
}

// Rune returns the glyph of the tile type.
func (t TileType) Rune() rune {
	return tileCatalog[t].Rune
}
