package auth

// Version strings of released app builds. A spoofed device picks one at random
// so that the fleet of clients looks like a plausible install base.

var AndroidAppVersions = []string{
	"Version 2023.48.0/Build 1319123",
	"Version 2023.49.0/Build 1321715",
	"Version 2023.49.1/Build 1322281",
	"Version 2023.50.0/Build 1332338",
	"Version 2023.50.1/Build 1345844",
	"Version 2024.02.0/Build 1368985",
	"Version 2024.03.0/Build 1379408",
	"Version 2024.04.0/Build 1391236",
	"Version 2024.05.0/Build 1403584",
	"Version 2024.06.0/Build 1418489",
	"Version 2024.07.0/Build 1429651",
	"Version 2024.08.0/Build 1439531",
	"Version 2024.10.0/Build 1470045",
	"Version 2024.10.1/Build 1478645",
	"Version 2024.11.0/Build 1480707",
	"Version 2024.12.0/Build 1494694",
	"Version 2024.13.0/Build 1505187",
	"Version 2024.14.0/Build 1520556",
	"Version 2024.15.0/Build 1536823",
	"Version 2024.16.0/Build 1551366",
	"Version 2024.17.0/Build 1568106",
	"Version 2024.18.0/Build 1577901",
	"Version 2024.18.1/Build 1585304",
	"Version 2024.19.0/Build 1593346",
	"Version 2024.20.0/Build 1612800",
	"Version 2024.20.1/Build 1615586",
	"Version 2024.21.0/Build 1631686",
	"Version 2024.22.0/Build 1645257",
	"Version 2024.22.1/Build 1652272",
}

var IOSAppVersions = []string{
	"Version 2023.50.0/Build 1318186",
	"Version 2023.50.1/Build 1324539",
	"Version 2024.02.0/Build 1349064",
	"Version 2024.03.0/Build 1363221",
	"Version 2024.04.0/Build 1376329",
	"Version 2024.05.0/Build 1391484",
	"Version 2024.06.0/Build 1404702",
	"Version 2024.07.0/Build 1418264",
	"Version 2024.08.0/Build 1430543",
	"Version 2024.10.0/Build 1457484",
	"Version 2024.11.0/Build 1471228",
	"Version 2024.12.0/Build 1486431",
	"Version 2024.13.0/Build 1499542",
	"Version 2024.14.0/Build 1513785",
	"Version 2024.15.0/Build 1526722",
	"Version 2024.16.0/Build 1541307",
	"Version 2024.17.0/Build 1556208",
	"Version 2024.18.0/Build 1569862",
	"Version 2024.19.0/Build 1584573",
	"Version 2024.20.0/Build 1599123",
	"Version 2024.21.0/Build 1613874",
	"Version 2024.22.0/Build 1628470",
}

var IOSOSVersions = []string{
	"15.1.0",
	"15.2.0",
	"15.3.0",
	"15.4.0",
	"15.5.0",
	"15.6.0",
	"15.7.0",
	"16.0.0",
	"16.1.0",
	"16.2.0",
	"16.3.0",
	"16.4.0",
	"16.5.0",
	"16.6.0",
	"16.7.0",
	"17.0.0",
	"17.1.0",
	"17.2.0",
	"17.3.0",
	"17.4.0",
	"17.5.0",
}
