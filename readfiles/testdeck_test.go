package readfiles

import (
	"strings"
)

const testDeck = `*Heading
** Job name: femur
*Node
      1,   0.,   0.,   0.
*Element, type=C3D4
1, 1, 2, 3, 4
*Elset, elset=Set_1
1, 2, 3
** Elements of the second material
*Elset, elset=Set_2
4, 5
*Elset, elset=Set_3, generate
6, 10, 2
** Section: Set_1
*Solid Section, elset=Set_1, material=Mat_1
,
*Solid Section, elset=Set_2, material=Mat_2
,
*Solid Section, elset=Set_3, material=Mat_3
,
*Material, name=Mat_1
*Density
1.4e-09,
*Elastic
8000., 0.3
*Material, name=Mat_2
*Elastic
bad, 0.3
*Material, name=Mat_3
*Elastic, type=ENGINEERING CONSTANTS
2664., 2664., 4000., 0.381, 0.104, 0.104, 968., 1256.
1256.,
*Step, name=Load
*End Step
`

func testMesh() *MeshFile {
	return ParseMesh("femur.inp", []byte(testDeck))
}

func testMeshCRLF() *MeshFile {
	return ParseMesh("femur.inp", []byte(strings.ReplaceAll(testDeck, "\n", "\r\n")))
}
